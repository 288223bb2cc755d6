package cache

import (
	"strconv"
	"unicode/utf16"
)

const (
	ExplanationPrefix = "code_explanation_"
	AudioPrefix       = "elevenlabs_audio_cache_"
	TranslationPrefix = "translation_"
)

// RollingHash computes hash = hash*31 + c over the UTF-16 code units of s,
// wrapping at 32 bits. Keys built from it match the ones browser clients
// already hold in local storage.
func RollingHash(s string) int32 {
	var hash int32
	for _, c := range utf16.Encode([]rune(s)) {
		hash = hash*31 + int32(c)
	}
	return hash
}

func ExplanationKey(code, language string) string {
	return ExplanationPrefix + language + "_" + strconv.Itoa(int(RollingHash(code)))
}

func AudioKey(text, language, voiceID string) string {
	return AudioPrefix + strconv.Itoa(int(RollingHash(text+"_"+language+"_"+voiceID)))
}

func TranslationKey(text, language string) string {
	return TranslationPrefix + language + "_" + strconv.Itoa(int(RollingHash(text)))
}
