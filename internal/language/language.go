package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the hint value that asks the provider to detect the language.
const Auto = "auto"

// whisperCodes are the language codes Whisper models were trained on.
var whisperCodes = strings.Fields(`
	en zh de es ru ko fr ja pt tr pl ca nl ar sv it id hi fi vi he uk el ms
	cs ro da hu ta no th ur hr bg lt la mi ml cy sk te fa lv bn sr az sl kn
	et mk br eu is hy ne mn bs kk sq sw gl mr pa si km sn yo so af oc ka be
	tg sd gu am yi lo uz fo ht ps tk nn mt sa lb my bo tl mg as tt haw ln
	ha ba jw su yue`)

// Whisper keeps the deprecated "jw" for Javanese.
var providerCodes = map[string]string{"jv": "jw"}

// ISO 639-2/B codes that x/text does not map onto a base language.
var bibliographic = map[string]string{
	"alb": "sq", "arm": "hy", "baq": "eu", "bur": "my", "chi": "zh",
	"cze": "cs", "dut": "nl", "fre": "fr", "geo": "ka", "ger": "de",
	"gre": "el", "ice": "is", "mac": "mk", "mao": "mi", "may": "ms",
	"per": "fa", "rum": "ro", "slo": "sk", "tib": "bo", "wel": "cy",
}

var nameAliases = map[string]string{
	"castilian": "es",
	"flemish":   "nl",
	"mandarin":  "zh",
	"moldavian": "ro",
	"valencian": "ca",
}

// byName maps lower-cased English language names onto Whisper codes.
var byName = func() map[string]string {
	namer := display.English.Languages()
	names := make(map[string]string, len(whisperCodes)+len(nameAliases))
	for _, code := range whisperCodes {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		if name := namer.Name(tag); name != "" {
			names[strings.ToLower(name)] = code
		}
	}
	for alias, code := range nameAliases {
		names[alias] = code
	}
	return names
}()

// Hint converts a user-supplied language hint into the code providers
// expect. Empty input and "auto" return "" (detect). Anything that is neither
// a known English name nor a parseable BCP 47 tag is an error.
func Hint(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || trimmed == Auto {
		return "", nil
	}
	if code, ok := byName[trimmed]; ok {
		return code, nil
	}
	if code, ok := bibliographic[trimmed]; ok {
		return code, nil
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("language hint %q: %w", value, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("language hint %q: unrecognized language", value)
	}
	code := base.String()
	if mapped, ok := providerCodes[code]; ok {
		return mapped, nil
	}
	return code, nil
}

// DisplayName returns the English name for a hint, "Auto-detect" for an
// empty or auto hint, and the upper-cased input when nothing matches.
func DisplayName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, Auto) {
		return "Auto-detect"
	}
	code, err := Hint(trimmed)
	if err == nil {
		for internal, provider := range providerCodes {
			if code == provider {
				code = internal
			}
		}
		if tag, err := language.Parse(code); err == nil {
			if name := display.English.Languages().Name(tag); name != "" {
				return name
			}
		}
	}
	return strings.ToUpper(trimmed)
}
