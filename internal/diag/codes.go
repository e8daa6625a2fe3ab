package diag

import "sort"

// Code is the machine-readable identifier of a warning. Codes are stable
// strings so that configs can ignore them by name.
type Code string

const (
	UnknownCode Code = "unknown"

	// загрузка и разбор файлов
	CouldNotLoad    Code = "could-not-load"
	ParseError      Code = "parse-error"
	UnknownDocument Code = "unknown-document"

	// ссылки
	CouldNotResolveReference   Code = "could-not-resolve-reference"
	MultipleGlobalDeclarations Code = "multiple-global-declarations"

	// наследование
	UnknownSuperclass           Code = "unknown-superclass"
	MixesReferenceNotFound      Code = "mixes-reference-not-found"
	MixesReferenceMultipleFound Code = "mixes-reference-multiple-found"
	MixesReferenceNonMixin      Code = "mixes-reference-non-mixin"
	OverridingPrivate           Code = "overriding-private"

	// polymer
	UnknownPolymerBehavior     Code = "unknown-polymer-behavior"
	MultiplePolymerBehaviors   Code = "multiple-polymer-behaviors"
	InvalidObserver            Code = "invalid-observer"
	UnknownObserverMethod      Code = "unknown-observer-method"
	UnknownListenerHandler     Code = "unknown-listener-handler"
	InvalidPropertiesObject    Code = "invalid-properties-declaration"
	InvalidBehaviorsAssignment Code = "invalid-behaviors-declaration"
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown problem",
	CouldNotLoad:                "file could not be loaded",
	ParseError:                  "file could not be parsed",
	UnknownDocument:             "document is not part of the analysis",
	CouldNotResolveReference:    "reference could not be resolved",
	MultipleGlobalDeclarations:  "identifier is declared more than once",
	UnknownSuperclass:           "superclass could not be resolved",
	MixesReferenceNotFound:      "mixin could not be resolved",
	MixesReferenceMultipleFound: "mixin name is ambiguous",
	MixesReferenceNonMixin:      "mixed-in feature is not a mixin",
	OverridingPrivate:           "private member is overridden",
	UnknownPolymerBehavior:      "behavior could not be resolved",
	MultiplePolymerBehaviors:    "behavior name is ambiguous",
	InvalidObserver:             "observer expression is malformed",
	UnknownObserverMethod:       "observer names an unknown method",
	UnknownListenerHandler:      "listener names an unknown handler",
	InvalidPropertiesObject:     "properties declaration is not an object literal",
	InvalidBehaviorsAssignment:  "behaviors declaration is not an array literal",
}

// Title returns a short human description of the code.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

// Known reports whether the code belongs to the built-in vocabulary.
func (c Code) Known() bool {
	_, ok := codeDescription[c]
	return ok
}

func (c Code) String() string { return string(c) }

// Codes lists the built-in vocabulary, sorted by name.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
