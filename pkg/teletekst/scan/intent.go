package scan

import "github.com/kiep/teletekst/pkg/teletekst/fetch"

// IntentKind enumerates the effects a transition asks the caller to perform.
type IntentKind int

const (
	ChangeZoom IntentKind = iota
	GoToPage
	EnterDigit
	ExitApplication
)

func (k IntentKind) String() string {
	switch k {
	case ChangeZoom:
		return "ChangeZoom"
	case GoToPage:
		return "GoToPage"
	case EnterDigit:
		return "EnterDigit"
	case ExitApplication:
		return "ExitApplication"
	default:
		return "Unknown"
	}
}

// Intent is a single requested effect. Only the field matching Kind is set.
type Intent struct {
	Kind   IntentKind
	Mode   ScanMode     // ChangeZoom
	Target fetch.Target // GoToPage
	Digits string       // EnterDigit
	Reason string       // ExitApplication
}

func changeZoom(m ScanMode) Intent {
	return Intent{Kind: ChangeZoom, Mode: m}
}

func goToPage(t fetch.Target) Intent {
	return Intent{Kind: GoToPage, Target: t}
}

func enterDigit(buffer string) Intent {
	return Intent{Kind: EnterDigit, Digits: buffer}
}

func exitApplication(reason string) Intent {
	return Intent{Kind: ExitApplication, Reason: reason}
}
