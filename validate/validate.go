// Package validate holds the input rules shared by every store. Each function
// trims where the rule says so and returns the normalized value, so callers
// persist exactly what was checked.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/josh34hsr/recipe-keeper/errs"
)

// Field bounds. Instructions cap matches the 64 KiB text column.
const (
	UsernameMin     = 3
	UsernameMax     = 50
	PasswordMin     = 6
	PasswordMax     = 100
	TitleMax        = 200
	InstructionsMax = 65535
	PrepTimeMax     = 1440 // 24 hours in minutes
	IngredientMax   = 100
	QuantityMax     = 50
)

// Username trims and checks length and charset (letters, digits, '_', '-').
func Username(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errs.Validationf("username cannot be empty")
	}
	if utf8.RuneCountInString(username) < UsernameMin {
		return "", errs.Validationf("username must be at least %d characters long", UsernameMin)
	}
	if utf8.RuneCountInString(username) > UsernameMax {
		return "", errs.Validationf("username cannot exceed %d characters", UsernameMax)
	}
	for _, c := range username {
		if !isUsernameRune(c) {
			return "", errs.Validationf("username can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return username, nil
}

func isUsernameRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

// Password checks length only. No trimming: leading and trailing spaces are
// part of the secret.
func Password(password string) (string, error) {
	if password == "" {
		return "", errs.Validationf("password cannot be empty")
	}
	if utf8.RuneCountInString(password) < PasswordMin {
		return "", errs.Validationf("password must be at least %d characters long", PasswordMin)
	}
	if utf8.RuneCountInString(password) > PasswordMax {
		return "", errs.Validationf("password cannot exceed %d characters", PasswordMax)
	}
	return password, nil
}

// RecipeTitle trims and bounds the recipe title.
func RecipeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errs.Validationf("recipe title cannot be empty")
	}
	if utf8.RuneCountInString(title) > TitleMax {
		return "", errs.Validationf("recipe title cannot exceed %d characters", TitleMax)
	}
	return title, nil
}

// Instructions trims and bounds the instructions text.
func Instructions(instructions string) (string, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return "", errs.Validationf("instructions cannot be empty")
	}
	if utf8.RuneCountInString(instructions) > InstructionsMax {
		return "", errs.Validationf("instructions are too long (maximum %d characters)", InstructionsMax)
	}
	return instructions, nil
}

// PrepTime bounds the preparation time to 1..1440 minutes.
func PrepTime(minutes int) (int, error) {
	if minutes <= 0 {
		return 0, errs.Validationf("preparation time must be a positive number")
	}
	if minutes > PrepTimeMax {
		return 0, errs.Validationf("preparation time cannot exceed 24 hours (%d minutes)", PrepTimeMax)
	}
	return minutes, nil
}

// Ingredient trims both parts of an ingredient pair. The name must be
// non-empty; the quantity may be empty.
func Ingredient(name, quantity string) (string, string, error) {
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if name == "" {
		return "", "", errs.Validationf("ingredient name cannot be empty")
	}
	if utf8.RuneCountInString(name) > IngredientMax {
		return "", "", errs.Validationf("ingredient name is too long (maximum %d characters)", IngredientMax)
	}
	if utf8.RuneCountInString(quantity) > QuantityMax {
		return "", "", errs.Validationf("quantity description is too long (maximum %d characters)", QuantityMax)
	}
	return name, quantity, nil
}
