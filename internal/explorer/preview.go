package explorer

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// previewProbe is how many bytes are sniffed to classify a file as binary.
const previewProbe = 512

// Preview returns display lines for the selected entry: the first maxLines
// lines of a text file, the first few children of a directory, or a summary
// for binary files.
func Preview(entry Entry, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = 10
	}
	if entry.IsDir {
		return previewDir(entry, maxLines)
	}
	return previewFile(entry, maxLines)
}

func previewDir(entry Entry, maxLines int) []string {
	children, err := os.ReadDir(entry.Path)
	if err != nil {
		return []string{"Directory: " + entry.Name, "", "Error reading directory"}
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].IsDir() != children[j].IsDir() {
			return children[i].IsDir()
		}
		return children[i].Name() < children[j].Name()
	})

	lines := []string{"Directory: " + entry.Name, ""}
	for i, child := range children {
		if i >= maxLines {
			lines = append(lines, fmt.Sprintf("... and %d more items", len(children)-maxLines))
			break
		}
		marker := "  "
		if child.IsDir() {
			marker = "/ "
		}
		lines = append(lines, marker+child.Name())
	}
	return lines
}

func previewFile(entry Entry, maxLines int) []string {
	f, err := os.Open(entry.Path)
	if err != nil {
		return []string{"File: " + entry.Name, "", "Error reading file"}
	}
	defer func() { _ = f.Close() }()

	probe := make([]byte, previewProbe)
	n, _ := f.Read(probe)
	if bytes.Contains(probe[:n], []byte{0}) {
		return []string{
			"Binary: " + entry.Name,
			"Size: " + humanize.Bytes(uint64(entry.Size)),
			"",
			"Binary file - cannot preview",
		}
	}

	if _, err := f.Seek(0, 0); err != nil {
		return []string{"File: " + entry.Name, "", "Error reading file"}
	}

	lines := []string{
		fmt.Sprintf("File: %s (%s)", entry.Name, humanize.Bytes(uint64(entry.Size))),
		"",
	}
	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() && count < maxLines {
		line := scanner.Text()
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		line = strings.ReplaceAll(line, "\t", "    ")
		lines = append(lines, fmt.Sprintf("%2d: %s", count+1, line))
		count++
	}
	if scanner.Scan() {
		lines = append(lines, "", "...")
	}
	return lines
}
