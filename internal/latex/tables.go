package latex

// Tables holds the two disjoint macro mappings: accent macros compose a base
// character with a diacritic, symbol macros map directly to literal text.
type Tables struct {
	Accents map[string]map[string]string
	Symbols map[string]string
}

// DefaultTables returns the shipped accent and symbol tables.
func DefaultTables() Tables {
	return Tables{
		Accents: map[string]map[string]string{
			"'": {
				"a": "á", "e": "é", "i": "í", "o": "ó", "u": "ú", "y": "ý", "c": "ć", "n": "ń", "s": "ś", "z": "ź",
				"A": "Á", "E": "É", "I": "Í", "O": "Ó", "U": "Ú", "Y": "Ý", "C": "Ć", "N": "Ń", "S": "Ś", "Z": "Ź",
			},
			"`": {
				"a": "à", "e": "è", "i": "ì", "o": "ò", "u": "ù",
				"A": "À", "E": "È", "I": "Ì", "O": "Ò", "U": "Ù",
			},
			"\"": {
				"a": "ä", "e": "ë", "i": "ï", "o": "ö", "u": "ü", "y": "ÿ",
				"A": "Ä", "E": "Ë", "I": "Ï", "O": "Ö", "U": "Ü",
			},
			"^": {
				"a": "â", "e": "ê", "i": "î", "o": "ô", "u": "û",
				"A": "Â", "E": "Ê", "I": "Î", "O": "Ô", "U": "Û",
			},
			"~": {
				"a": "ã", "n": "ñ", "o": "õ",
				"A": "Ã", "N": "Ñ", "O": "Õ",
			},
			"c": {
				"c": "ç", "C": "Ç", "s": "ş", "S": "Ş", "t": "ţ", "T": "Ţ",
			},
			"v": {
				"c": "č", "C": "Č", "s": "š", "S": "Š", "z": "ž", "Z": "Ž", "r": "ř", "R": "Ř", "e": "ě", "E": "Ě",
			},
			"=": {
				"a": "ā", "e": "ē", "i": "ī", "o": "ō", "u": "ū",
				"A": "Ā", "E": "Ē", "I": "Ī", "O": "Ō", "U": "Ū",
			},
			"u": {
				"a": "ă", "A": "Ă", "g": "ğ", "G": "Ğ",
			},
			"k": {
				"a": "ą", "A": "Ą", "e": "ę", "E": "Ę",
			},
			".": {
				"z": "ż", "Z": "Ż", "e": "ė", "E": "Ė",
			},
			"r": {
				"a": "å", "A": "Å", "u": "ů", "U": "Ů",
			},
			"H": {
				"o": "ő", "O": "Ő", "u": "ű", "U": "Ű",
			},
		},
		Symbols: map[string]string{
			"dag":            "†",
			"ddag":           "‡",
			"S":              "§",
			"P":              "¶",
			"copyright":      "©",
			"textregistered": "®",
			"texttrademark":  "™",
			"pounds":         "£",
			"euro":           "€",
			"yen":            "¥",
			"dots":           "…",
			"ldots":          "…",
			"textellipsis":   "…",
			"times":          "×",
			"div":            "÷",
			"pm":             "±",
			"degree":         "°",
			"oe":             "œ",
			"OE":             "Œ",
			"ae":             "æ",
			"AE":             "Æ",
			"aa":             "å",
			"AA":             "Å",
			"o":              "ø",
			"O":              "Ø",
			"ss":             "ß",
			"l":              "ł",
			"L":              "Ł",
			"textendash":     "–",
			"textemdash":     "—",
			"textbackslash":  "\\",
		},
	}
}
