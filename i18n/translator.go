package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for rule message keys.
// Keys are either "<field>.<code>" (e.g. "phone.length") or a bare code
// used as the fallback. data fills "{name}" placeholders.
type Translator interface {
	Message(key string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang language.Tag }

var catalog = map[language.Tag]map[string]string{
	language.Korean: {
		"username.too_short":        "이름은 2글자 이상이어야 합니다.",
		"username.too_long":         "이름은 100글자 이하여야 합니다.",
		"email.invalid_format":      "올바른 이메일을 입력해주세요.",
		"phone.length":              "연락처는 11자리여야 합니다.",
		"phone.pattern":             "010으로 시작하는 11자리 숫자를 입력해주세요.",
		"role.too_short":            "역할을 선택해주세요.",
		"password.too_short":        "비밀번호는 최소 6자리 이상이어야 합니다.",
		"password.too_long":         "비밀번호는 100자리 이하이어야 합니다.",
		"password.pattern":          "비밀번호는 최소 8자리 이상, 영문, 숫자, 특수문자를 포함해야 합니다.",
		"confirmPassword.too_short": "비밀번호는 최소 6자리 이상이어야 합니다.",
		"confirmPassword.too_long":  "비밀번호는 100자리 이하이어야 합니다.",
		"confirmPassword.pattern":   "비밀번호는 최소 8자리 이상, 영문, 숫자, 특수문자를 포함해야 합니다.",
		"mismatch":                  "비밀번호가 일치하지 않습니다.",
		"too_short":                 "{min}자 이상이어야 합니다.",
		"too_long":                  "{max}자 이하여야 합니다.",
		"length":                    "{len}자여야 합니다.",
		"pattern":                   "형식이 올바르지 않습니다.",
		"invalid_format":            "형식이 올바르지 않습니다.",
	},
	language.English: {
		"username.too_short":        "Name must be at least 2 characters.",
		"username.too_long":         "Name must be at most 100 characters.",
		"email.invalid_format":      "Please enter a valid email address.",
		"phone.length":              "Phone number must be 11 digits.",
		"phone.pattern":             "Enter an 11-digit number starting with 010.",
		"role.too_short":            "Please select a role.",
		"password.too_short":        "Password must be at least 6 characters.",
		"password.too_long":         "Password must be at most 100 characters.",
		"password.pattern":          "Password must be at least 8 characters and include a letter, a number and a symbol.",
		"confirmPassword.too_short": "Password must be at least 6 characters.",
		"confirmPassword.too_long":  "Password must be at most 100 characters.",
		"confirmPassword.pattern":   "Password must be at least 8 characters and include a letter, a number and a symbol.",
		"mismatch":                  "Passwords do not match.",
		"too_short":                 "must be at least {min} characters",
		"too_long":                  "must be at most {max} characters",
		"length":                    "must be exactly {len} characters",
		"pattern":                   "invalid format",
		"invalid_format":            "invalid format",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.Korean, language.English})

func (t dictTranslator) Message(key string, data map[string]string) string {
	dict := catalog[t.lang]
	msg, ok := dict[key]
	if !ok {
		// "<field>.<code>" falls back to the bare code.
		if i := strings.LastIndexByte(key, '.'); i >= 0 {
			msg, ok = dict[key[i+1:]]
		}
	}
	if !ok {
		return key
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: language.Korean}
)

// SetLanguage switches the built-in Translator to the closest supported
// language ("ko" or "en"). Unrecognized tags select Korean.
func SetLanguage(lang string) {
	tag, _, _ := matcher.Match(language.Make(lang))
	base, _ := tag.Base()
	t := language.Korean
	if base.String() == "en" {
		t = language.English
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: t}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the Korean dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: language.Korean}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given key using the current Translator.
func T(key string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(key, data)
}
