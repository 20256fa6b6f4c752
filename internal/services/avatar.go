package services

import (
	"fmt"
	"math/rand/v2"
)

// AvatarCount is the number of preset avatars new users are assigned from.
const AvatarCount = 100

const avatarURLFormat = "https://avatar.iran.liara.run/public/%d.png"

// AvatarURL returns the preset avatar for idx, 1..AvatarCount.
func AvatarURL(idx int) string {
	return fmt.Sprintf(avatarURLFormat, idx)
}

// RandomAvatarURL picks one of the preset avatars uniformly.
func RandomAvatarURL() string {
	return AvatarURL(rand.IntN(AvatarCount) + 1)
}
