// Package output assembles the prompt document and delivers it to its destinations.
package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/promptify/internal/types"
	"github.com/temirov/promptify/internal/utils"
)

const (
	newline = "\n"

	defaultInstructionHeader = "USER_REQUEST"
	defaultTreeBeginMarker   = "# === BEGIN PROJECT TREE: "
	defaultTreeEndMarker     = "# === END PROJECT TREE"
	defaultFilesHeader       = "FILES"
	defaultFileBeginMarker   = "# === BEGIN FILE: "
	defaultFileEndMarker     = "# === END FILE: "

	// errorReadFileFormat reports a collected file that could not be read.
	errorReadFileFormat = "reading %s: %w"
	// errorRenderTreeFormat reports a tree section that could not be rendered.
	errorRenderTreeFormat = "rendering tree for %s: %w"
)

// Markers holds the delimiter labels written into the prompt document.
// Begin and end file markers are followed by the file path; the tree begin
// marker is followed by the tree root. Rule, when set, is written on its own
// line before and after every file begin marker.
type Markers struct {
	InstructionHeader string
	TreeBegin         string
	TreeEnd           string
	FilesHeader       string
	FileBegin         string
	FileEnd           string
	Rule              string
}

// DefaultMarkers returns the labels used when no configuration overrides them.
func DefaultMarkers() Markers {
	return Markers{
		InstructionHeader: defaultInstructionHeader,
		TreeBegin:         defaultTreeBeginMarker,
		TreeEnd:           defaultTreeEndMarker,
		FilesHeader:       defaultFilesHeader,
		FileBegin:         defaultFileBeginMarker,
		FileEnd:           defaultFileEndMarker,
	}
}

// WithOverrides returns a copy of markers where every non-empty field of overrides wins.
func (markers Markers) WithOverrides(overrides Markers) Markers {
	result := markers
	overrideString(&result.InstructionHeader, overrides.InstructionHeader)
	overrideString(&result.TreeBegin, overrides.TreeBegin)
	overrideString(&result.TreeEnd, overrides.TreeEnd)
	overrideString(&result.FilesHeader, overrides.FilesHeader)
	overrideString(&result.FileBegin, overrides.FileBegin)
	overrideString(&result.FileEnd, overrides.FileEnd)
	overrideString(&result.Rule, overrides.Rule)
	return result
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// TreeRenderer produces the lines of a directory tree rendering.
type TreeRenderer interface {
	RenderTreeLines(rootDirectoryPath string) ([]string, error)
}

// Assembler serializes the instruction, tree, and file sections into one document.
type Assembler struct {
	Markers Markers
	Tree    TreeRenderer
	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// NewAssembler returns an Assembler writing markers and rendering trees with tree.
func NewAssembler(markers Markers, tree TreeRenderer) *Assembler {
	return &Assembler{Markers: markers, Tree: tree, ReadFile: os.ReadFile}
}

// Assemble builds the prompt document. Sections are emitted in a fixed order
// and separated by blank lines: the instruction (only when it is non-blank
// after trimming), the tree of treeRoot, and one block per file in the order
// given. A file that is not valid UTF-8 aborts assembly with a
// *types.DecodeError. The result depends only on its inputs and the files'
// content.
func (assembler *Assembler) Assemble(files []string, treeRoot string, instruction string) (string, error) {
	var buffer bytes.Buffer

	if trimmedInstruction := strings.TrimSpace(instruction); trimmedInstruction != "" {
		buffer.WriteString(assembler.Markers.InstructionHeader + newline)
		buffer.WriteString(trimmedInstruction + newline)
		buffer.WriteString(newline)
	}

	treeLines, renderError := assembler.Tree.RenderTreeLines(treeRoot)
	if renderError != nil {
		return "", fmt.Errorf(errorRenderTreeFormat, treeRoot, renderError)
	}
	buffer.WriteString(assembler.Markers.TreeBegin + treeRoot + newline)
	for _, treeLine := range treeLines {
		buffer.WriteString(treeLine + newline)
	}
	buffer.WriteString(assembler.Markers.TreeEnd + newline)
	buffer.WriteString(newline)

	buffer.WriteString(assembler.Markers.FilesHeader + newline)
	readFile := assembler.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	for _, filePath := range files {
		fileBytes, readError := readFile(filePath)
		if readError != nil {
			return "", fmt.Errorf(errorReadFileFormat, filePath, readError)
		}
		if !utils.IsDecodableText(fileBytes) {
			return "", &types.DecodeError{Path: filePath}
		}
		assembler.writeFileBlock(&buffer, filePath, fileBytes)
	}

	return buffer.String(), nil
}

func (assembler *Assembler) writeFileBlock(buffer *bytes.Buffer, filePath string, fileBytes []byte) {
	buffer.WriteString(newline)
	if assembler.Markers.Rule != "" {
		buffer.WriteString(assembler.Markers.Rule + newline)
	}
	buffer.WriteString(assembler.Markers.FileBegin + filePath + newline)
	if assembler.Markers.Rule != "" {
		buffer.WriteString(assembler.Markers.Rule + newline)
	}
	buffer.Write(fileBytes)
	if len(fileBytes) == 0 || fileBytes[len(fileBytes)-1] != '\n' {
		buffer.WriteString(newline)
	}
	buffer.WriteString(assembler.Markers.FileEnd + filePath + newline)
}
