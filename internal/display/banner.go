package display

import (
	"fmt"
	"io"

	"github.com/tlbbweb/texconv/internal/term"
)

const banner = ` _                                  
| |_ _____  __ ___ ___  _ ____   __
| __/ _ \ \/ // __/ _ \| '_ \ \ / /
| ||  __/>  <| (_| (_) | | | \ V / 
 \__\___/_/\_\\___\___/|_| |_|\_/  
`

// PrintBanner writes the ASCII art banner to w; magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
	fmt.Fprintln(w)
}
