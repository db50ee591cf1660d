package parse

import "regexp"

// Character-range and common-word heuristics used when no backend reports
// a language. The Japanese check runs before Chinese because its pattern
// also covers shared CJK ideographs.
var (
	thaiPattern     = regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)
	japanesePattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
	chinesePattern  = regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)
	koreanPattern   = regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`)

	spanishWords = regexp.MustCompile(`(?i)\b(el|la|de|que|y|en|un|es|se|no|te|lo|le|da|su|por|son|con|para|al|del|los|me|si|ya|vez|ni|mi|pero|muy|dos|más|bien|hasta|donde|como|está|desde|hacer|cada|siendo|antes|mismo|tengo|aquí)\b`)
	frenchWords  = regexp.MustCompile(`(?i)\b(le|de|et|à|un|il|être|en|avoir|que|pour|dans|ce|son|une|sur|avec|ne|se|pas|tout|plus|par|grand|quand|même|lui|temps|très|sans|autre|après|venir|faire|depuis|contre|encore|sous|pourquoi|pendant|dire|comme|aller)\b`)
	germanWords  = regexp.MustCompile(`(?i)\b(der|die|und|in|den|von|zu|das|mit|sich|des|auf|für|ist|im|dem|nicht|ein|eine|als|auch|es|an|werden|aus|er|hat|dass|sie|nach|wird|bei|noch|wie|einem|einen|über|so|man|haben|diese|seinem|war|oder|wenn|aber|kann|durch|gegen|ihn|wo|sehr|doch|nur|was|mehr|wir|alle|sein)\b`)
)

// DetectLanguage guesses the dominant language of text from character
// ranges and common words, defaulting to English.
func DetectLanguage(text string) string {
	switch {
	case thaiPattern.MatchString(text):
		return "Thai"
	case japanesePattern.MatchString(text):
		return "Japanese"
	case chinesePattern.MatchString(text):
		return "Chinese"
	case koreanPattern.MatchString(text):
		return "Korean"
	case spanishWords.MatchString(text):
		return "Spanish"
	case frenchWords.MatchString(text):
		return "French"
	case germanWords.MatchString(text):
		return "German"
	default:
		return "English"
	}
}
