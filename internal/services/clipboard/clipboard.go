// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/temirov/promptify/internal/types"
)

const (
	// errorUnsupportedBackendFormat reports an unknown backend name.
	errorUnsupportedBackendFormat = "unsupported clipboard backend %q (expected %s, %s, or %s)"
	// errorNativeCommandFormat reports a clipboard utility that exited with an error.
	errorNativeCommandFormat = "%s: %w: %s"
)

// errNoNativeUtility reports that none of the clipboard utilities is installed.
var errNoNativeUtility = errors.New("no clipboard utility found on PATH")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// NativeService implements Copier by piping text into a platform clipboard utility.
// The first candidate found on PATH is used.
type NativeService struct {
	Candidates [][]string
	LookPath   func(file string) (string, error)
}

// NewNativeService returns a NativeService with the utilities known for the running platform.
func NewNativeService() *NativeService {
	return &NativeService{Candidates: nativeCandidates(runtime.GOOS), LookPath: exec.LookPath}
}

func nativeCandidates(operatingSystem string) [][]string {
	switch operatingSystem {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"clip"}}
	default:
		return [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

// Copy writes text to the standard input of the first available clipboard utility.
func (service *NativeService) Copy(text string) error {
	lookPath := service.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, candidate := range service.Candidates {
		if len(candidate) == 0 {
			continue
		}
		executablePath, lookupError := lookPath(candidate[0])
		if lookupError != nil {
			continue
		}
		// #nosec G204
		command := exec.Command(executablePath, candidate[1:]...)
		command.Stdin = strings.NewReader(text)
		var standardError bytes.Buffer
		command.Stderr = &standardError
		if runError := command.Run(); runError != nil {
			return fmt.Errorf(errorNativeCommandFormat, candidate[0], runError, strings.TrimSpace(standardError.String()))
		}
		return nil
	}
	return errNoNativeUtility
}

// NewCopier returns the Copier for backend. The none backend yields a nil Copier.
func NewCopier(backend string) (Copier, error) {
	switch backend {
	case types.ClipboardBackendLibrary:
		return NewService(), nil
	case types.ClipboardBackendNative:
		return NewNativeService(), nil
	case types.ClipboardBackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf(errorUnsupportedBackendFormat, backend, types.ClipboardBackendLibrary, types.ClipboardBackendNative, types.ClipboardBackendNone)
	}
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = (*NativeService)(nil)
)
