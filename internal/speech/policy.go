package speech

import "strings"

// Voice is a synthesis voice offered by an engine.
type Voice struct {
	// Name is the human-readable voice name.
	Name string
	// Lang is a BCP 47-ish tag such as "en-US".
	Lang string
	// ID is what the engine needs to select the voice; Name when empty.
	ID string
}

func (v Voice) lang() string {
	return strings.ToLower(strings.ReplaceAll(v.Lang, "_", "-"))
}

func (v Voice) isEnglish() bool { return strings.HasPrefix(v.lang(), "en") }
func (v Voice) isUS() bool      { return strings.HasPrefix(v.lang(), "en-us") }

func (v Voice) engineID() string {
	if v.ID != "" {
		return v.ID
	}
	return v.Name
}

// FemaleKeywords mark voice names that are commonly female.
var FemaleKeywords = []string{
	"female", "samantha", "zira", "alva", "amy", "alloy", "fiona", "tessa",
	"amelia", "maria", "victoria", "bella", "linda", "aria",
}

// PreferredNames are tried in order as case-insensitive substrings.
var PreferredNames = []string{
	"Google UK English Female",
	"Google US English",
	"Samantha",
	"Alva",
	"Amy",
	"Microsoft Zira",
	"en-US-Wavenet-F",
	"en-US-Standard-E",
}

// Rule picks a voice from the English candidates.
type Rule struct {
	Name string
	Pick func(english []Voice) (Voice, bool)
}

// Policy is an ordered list of rules; the first rule that picks wins.
type Policy []Rule

// DefaultPolicy prefers a US female voice, then a known name, then any US
// voice, then any female English voice, then the first English voice.
func DefaultPolicy() Policy {
	return Policy{
		{Name: "us-female", Pick: first(func(v Voice) bool { return v.isUS() && femaleName(v.Name) })},
		{Name: "preferred-name", Pick: preferredName},
		{Name: "us", Pick: first(Voice.isUS)},
		{Name: "female", Pick: first(func(v Voice) bool { return femaleName(v.Name) })},
		{Name: "first-english", Pick: first(func(Voice) bool { return true })},
	}
}

// Select returns the chosen voice and the name of the rule that chose it.
// Only English voices are considered.
func (p Policy) Select(voices []Voice) (Voice, string, bool) {
	english := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if v.isEnglish() {
			english = append(english, v)
		}
	}
	if len(english) == 0 {
		return Voice{}, "", false
	}
	for _, r := range p {
		if v, ok := r.Pick(english); ok {
			return v, r.Name, true
		}
	}
	return Voice{}, "", false
}

func first(match func(Voice) bool) func([]Voice) (Voice, bool) {
	return func(vs []Voice) (Voice, bool) {
		for _, v := range vs {
			if match(v) {
				return v, true
			}
		}
		return Voice{}, false
	}
}

func preferredName(vs []Voice) (Voice, bool) {
	for _, name := range PreferredNames {
		name = strings.ToLower(name)
		for _, v := range vs {
			if v.Name != "" && strings.Contains(strings.ToLower(v.Name), name) {
				return v, true
			}
		}
	}
	return Voice{}, false
}

func femaleName(name string) bool {
	name = strings.ToLower(name)
	for _, k := range FemaleKeywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
