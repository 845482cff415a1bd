package app

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyQuitUpper = "Q"
	KeyCtrlC     = "ctrl+c"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyJ         = "j"
	KeyK         = "k"
	KeyEnter     = "enter"
	KeyEscape    = "esc"
	KeySpace     = " "
	KeyNextChunk = "n"
	KeyPrevChunk = "p"
	KeyEditText  = "t"
	KeyEditStart = "s"
	KeyEditEnd   = "e"
	KeyResize    = "r"
	KeyDelete    = "x"
	KeyUndo      = "u"
	KeySaveAll   = "w"
	KeyFirstSeg  = "g"
	KeyLastSeg   = "G"
	KeyConfirmY  = "y"
	KeyConfirmN  = "n"
)
