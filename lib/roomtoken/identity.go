// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package roomtoken

import (
	"fmt"
	"math/rand"
)

// The identity pools the auth endpoint has always drawn from: a
// display name, a presence color, and one of the ten bundled avatars.

var names = []string{
	"Charlie Layne",
	"Mislav Abha",
	"Tatum Paolo",
	"Anjali Wanda",
	"Jody Hekla",
	"Emil Joyce",
	"Jory Quispe",
	"Quinn Elton",
}

var colors = []string{
	"#f87171",
	"#fb923c",
	"#facc15",
	"#5fda15",
	"#4ade80",
	"#34ead2",
	"#22d3ee",
	"#60a5fa",
	"#c084fc",
	"#ff7dc0",
}

const avatarCount = 10

// randomIdentity assigns a display identity for a freshly minted
// token.
func randomIdentity() Identity {
	return Identity{
		Name:    names[rand.Intn(len(names))],
		Color:   colors[rand.Intn(len(colors))],
		Picture: fmt.Sprintf("/assets/avatars/%d.png", rand.Intn(avatarCount)),
	}
}
