package service

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const defaultDocumentName = "document.pdf"

// baseName strips directories and control characters a client may have
// put in an upload name.
func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return defaultDocumentName
	}
	return name
}

func stem(name string) string {
	name = baseName(name)
	if ext := path.Ext(name); ext != "" && ext != name {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// MergedFilename names a merge output after the day it was produced.
func MergedFilename(now time.Time) string {
	return fmt.Sprintf("merged_%s.pdf", now.Format("2006-01-02"))
}

// SplitEntryName names one document inside the split archive.
func SplitEntryName(start, end int) string {
	return fmt.Sprintf("split_%d_%d.pdf", start, end)
}

// SplitArchiveName is the name of the split output.
const SplitArchiveName = "split_pdfs.zip"

// ConvertedPDFName is the name of an HTML conversion output.
const ConvertedPDFName = "converted.pdf"

func compressedFilename(name string) string  { return "compressed_" + baseName(name) }
func watermarkedFilename(name string) string { return "watermarked-" + baseName(name) }
func protectedFilename(name string) string   { return "protected_" + baseName(name) }
func textFilename(name string) string        { return stem(name) + ".txt" }
