package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Word lists for generating kid-friendly display names and avatar colors
var adjectives = []string{
	"happy", "sunny", "brave", "bright", "cool", "swift", "clever", "jolly",
	"mighty", "super", "star", "wild", "funny", "lucky", "magic", "bouncy",
	"cheerful", "daring", "eager", "gentle", "lively", "merry", "noble", "perky",
	"quick", "snappy", "zippy", "bold", "cosmic", "epic", "groovy", "speedy",
}

var animals = []string{
	"dragon", "tiger", "eagle", "dolphin", "panda", "lion", "wolf", "bear",
	"fox", "hawk", "otter", "phoenix", "unicorn", "koala", "penguin", "rabbit",
	"badger", "falcon", "gecko", "hedgehog", "lemur", "meerkat", "puffin", "raccoon",
}

var avatarColors = []string{
	"#FF6B6B", "#4ECDC4", "#FFD93D", "#95E1D3", "#A78BFA", "#F9A8D4",
	"#6EE7B7", "#FCA5A5", "#93C5FD", "#FDBA74",
}

// GenerateDisplayName generates a random "Adjective Animal" name for a
// new child profile when the parent does not provide one
func GenerateDisplayName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	animal, err := randomElement(animals)
	if err != nil {
		return "", err
	}

	return titleCase(adjective) + " " + titleCase(animal), nil
}

// PickAvatarColor picks a random color from the avatar palette
func PickAvatarColor() (string, error) {
	return randomElement(avatarColors)
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
