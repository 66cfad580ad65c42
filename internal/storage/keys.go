package storage

// Key is a logical storage key. All persisted app state lives under one
// of the keys below so that validators, migrations and tests can
// enumerate the full catalogue.
type Key string

const (
	KeyLearnedWords    Key = "learned_words"
	KeyUserProfile     Key = "user_profile"
	KeyWordProgress    Key = "word_progress"
	KeySpellingStats   Key = "spelling_stats"
	KeyMathStats       Key = "math_stats"
	KeyShapeStats      Key = "shape_stats"
	KeyChoreStats      Key = "chore_stats"
	KeyPinAttempts     Key = "pin_attempts"
	KeyThemeSettings   Key = "theme_settings"
	KeySoundSettings   Key = "sound_settings"
	KeyCompletedChores Key = "completed_chores"
	KeyChildProfiles   Key = "child_profiles"
	KeyRewardProgress  Key = "reward_progress"
	KeyPinVerified     Key = "pin_verified"
	KeyTutorialFlags   Key = "tutorial_flags"
)

// AllKeys returns every key the app persists under.
func AllKeys() []Key {
	return []Key{
		KeyLearnedWords,
		KeyUserProfile,
		KeyWordProgress,
		KeySpellingStats,
		KeyMathStats,
		KeyShapeStats,
		KeyChoreStats,
		KeyPinAttempts,
		KeyThemeSettings,
		KeySoundSettings,
		KeyCompletedChores,
		KeyChildProfiles,
		KeyRewardProgress,
		KeyPinVerified,
		KeyTutorialFlags,
	}
}
