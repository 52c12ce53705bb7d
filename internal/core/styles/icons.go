package styles

// Status icons used in reports.
var (
	IconPass = "✔"
	IconWarn = "●"
	IconFail = "✘"
	IconFix  = "✎"
	IconSkip = "–"
)
