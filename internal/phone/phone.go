// Package phone valide et normalise les numéros de téléphone ivoiriens.
//
// Quatre formats de surface désignent le même numéro d'abonné à
// 8 chiffres :
//   - international : +225 suivi des 10 chiffres nationaux ;
//   - national : 10 chiffres avec zéro initial (mobiles du plan 2021) ;
//   - local : 10 chiffres sans zéro initial (lignes fixes) ;
//   - historique : 8 chiffres (plan d'avant 2021).
//
// Contrat "fail soft" : une entrée invalide ne déclenche jamais de
// panique ; les validations retournent false et les conversions
// retournent l'entrée inchangée. Les appelants s'appuient dessus.
package phone

import "strings"

const countryPrefix = "225"

// Operator est l'opérateur mobile identifié par le préfixe à 2 chiffres.
type Operator string

const (
	OperatorOrange  Operator = "Orange"
	OperatorMTN     Operator = "MTN"
	OperatorMoov    Operator = "Moov"
	OperatorUnknown Operator = "unknown"
)

// Plan de numérotation 2021 : préfixe → opérateur. Tout préfixe absent
// de la table classe le numéro en "unknown", jamais en erreur.
var operators = map[string]Operator{
	"01": OperatorMoov,
	"05": OperatorMTN,
	"07": OperatorOrange,
}

func digitsOnly(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// legacyPrefix déduit le préfixe du plan 2021 d'un ancien numéro à
// 8 chiffres, d'après son premier chiffre (règle de migration ARTCI).
func legacyPrefix(d string) string {
	switch d[0] {
	case '7', '8', '9':
		return "07" // Orange
	case '4', '5', '6':
		return "05" // MTN
	case '1', '2', '3':
		return "01" // Moov
	}
	return "07"
}

// normalize ramène toute entrée valide à la forme nationale à 10 chiffres.
func normalize(input string) (string, bool) {
	d := digitsOnly(input)
	switch {
	case len(d) == 13 && strings.HasPrefix(d, countryPrefix):
		return d[3:], true
	case len(d) == 11 && strings.HasPrefix(d, countryPrefix):
		// international posé sur un corps historique à 8 chiffres
		return legacyPrefix(d[3:]) + d[3:], true
	case len(d) == 10:
		return d, true
	case len(d) == 8:
		return legacyPrefix(d) + d, true
	}
	return "", false
}

// IsValid indique si l'entrée est un numéro ivoirien reconnaissable
// dans l'un des quatre formats.
func IsValid(input string) bool {
	_, ok := normalize(input)
	return ok
}

// ToNational retourne la forme nationale canonique à 10 chiffres, ou
// l'entrée inchangée si elle n'est pas analysable.
func ToNational(input string) string {
	n, ok := normalize(input)
	if !ok {
		return input
	}
	return n
}

// ToInternational retourne la forme internationale "+225XXXXXXXXXX",
// ou l'entrée inchangée si elle n'est pas analysable.
func ToInternational(input string) string {
	n, ok := normalize(input)
	if !ok {
		return input
	}
	return "+" + countryPrefix + n
}

// OperatorOf classe le numéro par son préfixe à 2 chiffres.
func OperatorOf(input string) Operator {
	n, ok := normalize(input)
	if !ok {
		return OperatorUnknown
	}
	if op, ok := operators[n[:2]]; ok {
		return op
	}
	return OperatorUnknown
}

// Subscriber retourne le numéro d'abonné à 8 chiffres, invariant entre
// les quatre formats.
func Subscriber(input string) (string, bool) {
	n, ok := normalize(input)
	if !ok {
		return "", false
	}
	return n[2:], true
}

// Equal : vrai si les deux entrées désignent le même numéro d'abonné,
// quel que soit leur format de surface.
func Equal(a, b string) bool {
	sa, okA := Subscriber(a)
	sb, okB := Subscriber(b)
	return okA && okB && sa == sb
}
