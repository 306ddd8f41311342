package worker

import (
	"bytes"
	"html"
	"os"
)

// ListDirectory returns the names in dir sorted by name. The "." and ".."
// entries are not included.
func ListDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// NotFoundPage renders the 404 body: one paragraph per entry of dir.
func NotFoundPage(dir string) []byte {
	var b bytes.Buffer
	b.WriteString("<html><body>")
	b.WriteString("<h2>404 : File not found !</h2><h4>Content in the current directory is : </h4>")

	names, err := ListDirectory(dir)
	if err != nil {
		log.Warnf("listing %s: %v", dir, err)
	}
	for _, name := range names {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(name))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.Bytes()
}
