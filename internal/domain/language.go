package domain

// Language identifies one of the supported game languages
type Language string

const (
	LangES Language = "es"
	LangEN Language = "en"
	LangFR Language = "fr"
	LangPT Language = "pt"
)

// DefaultLanguage is used when a room is created without an explicit language
const DefaultLanguage = LangES

var alphabetByLang = map[Language][]string{
	LangES: splitLetters("ABCDEFGHIJKLMNÑOPQRSTUVWXYZ"),
	LangEN: splitLetters("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	LangFR: splitLetters("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	LangPT: splitLetters("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
}

var categoriesByLang = map[Language][]string{
	LangES: {"Nombre", "Lugar", "Animal", "Objeto", "Color", "Fruta o Verdura"},
	LangEN: {"Name", "Place", "Animal", "Thing", "Color", "Fruit or Vegetable"},
	LangFR: {"Nom", "Lieu", "Animal", "Chose", "Couleur", "Fruit ou Légume"},
	LangPT: {"Nome", "Lugar", "Animal", "Coisa", "Cor", "Fruta ou Legume"},
}

// ParseLanguage maps a wire value to a Language, falling back to the default
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LangES, LangEN, LangFR, LangPT:
		return Language(s)
	default:
		return DefaultLanguage
	}
}

// Alphabet returns the letters a round letter may be drawn from for this language
func (l Language) Alphabet() []string {
	if a, ok := alphabetByLang[l]; ok {
		return a
	}
	return alphabetByLang[DefaultLanguage]
}

// DefaultCategories returns the built-in category set for this language
func (l Language) DefaultCategories() []string {
	if c, ok := categoriesByLang[l]; ok {
		return append([]string(nil), c...)
	}
	return append([]string(nil), categoriesByLang[DefaultLanguage]...)
}

// ContainsLetter reports whether letter belongs to this language's alphabet
func (l Language) ContainsLetter(letter string) bool {
	for _, a := range l.Alphabet() {
		if a == letter {
			return true
		}
	}
	return false
}

func splitLetters(s string) []string {
	letters := make([]string, 0, len(s))
	for _, r := range s {
		letters = append(letters, string(r))
	}
	return letters
}
