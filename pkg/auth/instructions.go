package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPIKeyGuide explains how to obtain a Pixabay API key
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "PIXABAY API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolving image ids to download urls needs a free Pixabay API key.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Register an account on https://pixabay.com/")
	fmt.Fprintln(w, "  2. Log in and open https://pixabay.com/api/docs/")
	fmt.Fprintln(w, "  3. Your key is shown under the \"key (required)\" parameter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pass it with --pixabay-api-key, set PIXABAY_API_KEY, or store it")
	fmt.Fprintln(w, "with 'pixabaydl auth login'.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
