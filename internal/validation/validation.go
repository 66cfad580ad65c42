package validation

import (
	"fmt"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Func checks that a decoded JSON value has the shape expected for one
// storage key. Checks are structural only: required fields must be
// present with the right primitive type. Numeric ranges and cross-field
// invariants are not the validator's job.
type Func func(v any) bool

// ForKey returns the validator for a logical storage key, or nil when
// the key is unknown. Callers treat an unknown key as invalid.
func ForKey(key string) Func {
	switch key {
	case "learned_words":
		return arrayOf(validLearnedWord)
	case "user_profile":
		return validUserProfile
	case "word_progress":
		return arrayOf(validWordProgress)
	case "spelling_stats", "math_stats", "shape_stats", "chore_stats":
		return validTrackerStats
	case "pin_attempts":
		return validPinAttempts
	case "theme_settings":
		return validThemeSettings
	case "sound_settings":
		return validSoundSettings
	case "completed_chores":
		return arrayOf(validCompletedChore)
	case "child_profiles":
		return arrayOf(validChildProfile)
	case "reward_progress":
		return validRewardProgressMap
	case "pin_verified":
		return isBool
	case "tutorial_flags":
		return mapOf(isBool)
	default:
		return nil
	}
}

func validUserProfile(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isNumber(obj["xp"]) &&
		isString(obj["level"]) &&
		isStringOrNull(obj["lastPlayed"])
}

func validLearnedWord(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["word"]) &&
		isString(obj["category"]) &&
		isString(obj["learnedAt"])
}

func validWordProgress(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["wordId"]) &&
		isNumber(obj["attempts"]) &&
		isNumber(obj["correct"]) &&
		isStringOrNull(obj["lastAttempt"])
}

// validTrackerStats accepts an object whose values are all category
// counter objects. Category names are not restricted here.
func validTrackerStats(v any) bool {
	return mapOf(validCategoryStats)(v)
}

func validCategoryStats(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isNumber(obj["attempted"]) &&
		isNumber(obj["correct"]) &&
		isNumber(obj["accuracy"])
}

func validPinAttempts(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isNumber(obj["count"]) &&
		isString(obj["windowStart"]) &&
		isString(obj["lockedUntil"])
}

func validThemeSettings(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["mode"])
}

func validSoundSettings(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isBool(obj["enabled"]) && isNumber(obj["volume"])
}

func validCompletedChore(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["choreId"]) &&
		isString(obj["category"]) &&
		isNumber(obj["xpAwarded"]) &&
		isString(obj["completedAt"])
}

func validChildProfile(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["id"]) &&
		isString(obj["name"]) &&
		isString(obj["level"]) &&
		isNumber(obj["xp"]) &&
		isString(obj["avatarColor"]) &&
		isString(obj["createdAt"])
}

func validRewardProgressMap(v any) bool {
	return mapOf(validRewardProgress)(v)
}

func validRewardProgress(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["userId"]) &&
		mapOf(validRewardState)(obj["rewards"]) &&
		validDailyProgress(obj["dailyProgress"]) &&
		validWeeklyProgress(obj["weeklyProgress"])
}

func validRewardState(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isBool(obj["isCompleted"]) &&
		isNumber(obj["progress"]) &&
		arrayOf(isString)(obj["requirements"])
}

func validDailyProgress(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["date"]) &&
		isNumber(obj["choresCompleted"]) &&
		isNumber(obj["xpEarned"])
}

func validWeeklyProgress(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj["weekStart"]) &&
		isNumber(obj["choresCompleted"]) &&
		isNumber(obj["xpEarned"])
}

// arrayOf requires an array value whose every element passes the item check
func arrayOf(item Func) Func {
	return func(v any) bool {
		arr, ok := v.([]any)
		if !ok {
			return false
		}
		for _, elem := range arr {
			if !item(elem) {
				return false
			}
		}
		return true
	}
}

// mapOf requires an object value whose every field passes the item check
func mapOf(item Func) Func {
	return func(v any) bool {
		obj, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for _, elem := range obj {
			if !item(elem) {
				return false
			}
		}
		return true
	}
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isStringOrNull(v any) bool {
	if v == nil {
		return true
	}
	return isString(v)
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}
