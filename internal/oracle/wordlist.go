package oracle

import (
	"context"
	"math/rand"
	"strings"
	"unicode"

	"stoproom/internal/domain"
)

// Wordlist is the built-in oracle used when no AI endpoint is configured.
// The opponent draws from curated per-language lists; the validator accepts
// words it knows and rejects the rest.
type Wordlist struct{}

// NewWordlist creates the built-in oracle
func NewWordlist() *Wordlist {
	return &Wordlist{}
}

// words maps language -> category -> known words. Lists are intentionally
// small; the validator is meant for development and offline play.
var words = map[domain.Language]map[string][]string{
	domain.LangEN: {
		"Name": {
			"Anna", "Bruno", "Carla", "Diego", "Emma", "Felix", "Greta",
			"Hugo", "Iris", "Julia", "Kevin", "Laura", "Mario", "Nora",
			"Oscar", "Paula", "Quentin", "Rosa", "Simon", "Tania",
			"Ursula", "Victor", "Wanda", "Xavier", "Yolanda", "Zack",
		},
		"Place": {
			"Athens", "Berlin", "Cairo", "Dallas", "Edinburgh", "Florence",
			"Geneva", "Havana", "Istanbul", "Jakarta", "Kyoto", "Lisbon",
			"Madrid", "Naples", "Oslo", "Paris", "Quito", "Rome",
			"Seville", "Tokyo", "Utrecht", "Vienna", "Warsaw", "York", "Zurich",
		},
		"Animal": {
			"Antelope", "Bear", "Cat", "Dolphin", "Elephant", "Falcon",
			"Giraffe", "Horse", "Iguana", "Jaguar", "Koala", "Lion",
			"Monkey", "Newt", "Octopus", "Penguin", "Quail", "Rabbit",
			"Snake", "Tiger", "Urchin", "Vulture", "Wolf", "Yak", "Zebra",
		},
		"Thing": {
			"Anchor", "Bottle", "Candle", "Drum", "Envelope", "Fork",
			"Guitar", "Hammer", "Iron", "Jar", "Kettle", "Lamp",
			"Mirror", "Needle", "Oven", "Pencil", "Quilt", "Rope",
			"Spoon", "Table", "Umbrella", "Vase", "Wheel", "Yarn", "Zipper",
		},
		"Color": {
			"Amber", "Blue", "Crimson", "Denim", "Emerald", "Fuchsia",
			"Green", "Hazel", "Indigo", "Jade", "Khaki", "Lavender",
			"Magenta", "Navy", "Orange", "Purple", "Red", "Silver",
			"Teal", "Violet", "White", "Yellow",
		},
		"Fruit or Vegetable": {
			"Apple", "Banana", "Carrot", "Date", "Eggplant", "Fig",
			"Grape", "Honeydew", "Jalapeno", "Kiwi", "Lemon", "Mango",
			"Nectarine", "Onion", "Peach", "Pear", "Quince", "Radish",
			"Spinach", "Tomato", "Ugli", "Watermelon", "Yam", "Zucchini",
		},
	},
	domain.LangES: {
		"Nombre": {
			"Ana", "Bruno", "Carlos", "Diana", "Elena", "Federico",
			"Gabriela", "Hugo", "Irene", "Javier", "Karla", "Lucía",
			"Mario", "Natalia", "Óscar", "Pablo", "Quique", "Rosa",
			"Sofía", "Tomás", "Úrsula", "Valentina", "Ximena", "Yolanda", "Zoe",
		},
		"Lugar": {
			"Argentina", "Bogotá", "Cádiz", "Durango", "Ecuador",
			"Florida", "Granada", "Honduras", "Ibiza", "Jalisco",
			"Lima", "Madrid", "Nicaragua", "Oaxaca", "Panamá",
			"Quito", "Rosario", "Sevilla", "Toledo", "Uruguay",
			"Valencia", "Zaragoza",
		},
		"Animal": {
			"Araña", "Ballena", "Caballo", "Delfín", "Elefante", "Foca",
			"Gato", "Hormiga", "Iguana", "Jirafa", "Koala", "León",
			"Mono", "Nutria", "Ñandú", "Oso", "Perro", "Quetzal",
			"Rana", "Serpiente", "Tigre", "Urraca", "Vaca", "Yegua", "Zorro",
		},
		"Objeto": {
			"Anillo", "Botella", "Cuchara", "Dado", "Espejo", "Farol",
			"Guitarra", "Hacha", "Imán", "Jarra", "Lámpara", "Mesa",
			"Navaja", "Olla", "Peine", "Reloj", "Silla", "Tenedor",
			"Vaso", "Yunque", "Zapato",
		},
		"Color": {
			"Amarillo", "Blanco", "Celeste", "Dorado", "Escarlata",
			"Fucsia", "Gris", "Índigo", "Jade", "Lila", "Marrón",
			"Naranja", "Ocre", "Plateado", "Rojo", "Salmón", "Turquesa",
			"Verde", "Violeta",
		},
		"Fruta o Verdura": {
			"Aguacate", "Banana", "Cereza", "Durazno", "Espinaca", "Fresa",
			"Guayaba", "Higo", "Jitomate", "Kiwi", "Limón", "Manzana",
			"Naranja", "Ñame", "Papa", "Pera", "Quinua", "Rábano",
			"Sandía", "Tomate", "Uva", "Zanahoria",
		},
	},
}

// Word implements OpponentGenerator: a random known word starting with the
// letter, or empty when the list has none.
func (w *Wordlist) Word(_ context.Context, letter, category string, lang domain.Language) (string, error) {
	list := words[lang][category]
	candidates := make([]string, 0, len(list))
	for _, word := range list {
		if hasPrefixFold(word, letter) {
			candidates = append(candidates, word)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// Validate implements WordValidator. Known words are valid; unknown words are
// accepted as long as they are purely alphabetic when the language has no
// list for the category, and rejected otherwise.
func (w *Wordlist) Validate(_ context.Context, letter, category, word string, lang domain.Language) (Verdict, error) {
	trimmed := domain.NormalizeWord(word)
	if trimmed == "" || !isAlphabetic(trimmed) {
		return Verdict{IsValid: false, Reason: "invalid_word"}, nil
	}

	list, ok := words[lang][category]
	if !ok {
		return Verdict{IsValid: true}, nil
	}
	for _, known := range list {
		if strings.EqualFold(known, trimmed) {
			return Verdict{IsValid: true}, nil
		}
	}
	return Verdict{IsValid: false, Reason: "invalid_word"}, nil
}

func hasPrefixFold(word, letter string) bool {
	return strings.HasPrefix(strings.ToLower(word), strings.ToLower(letter))
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}
