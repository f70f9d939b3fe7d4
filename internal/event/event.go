package event

import (
	"os"
	"time"
)

// Type identifies the kind of event.
type Type int

const (
	Error Type = iota + 1
	Complete
	CreateDirectoryStart
	CreateDirectoryError
	CreateDirectoryComplete
	CreateSymlinkStart
	CreateSymlinkError
	CreateSymlinkComplete
	CopyFileStart
	CopyFileError
	CopyFileComplete
)

var typeNames = [...]string{
	Error:                   "error",
	Complete:                "complete",
	CreateDirectoryStart:    "createDirectoryStart",
	CreateDirectoryError:    "createDirectoryError",
	CreateDirectoryComplete: "createDirectoryComplete",
	CreateSymlinkStart:      "createSymlinkStart",
	CreateSymlinkError:      "createSymlinkError",
	CreateSymlinkComplete:   "createSymlinkComplete",
	CopyFileStart:           "copyFileStart",
	CopyFileError:           "copyFileError",
	CopyFileComplete:        "copyFileComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ParseType returns the Type whose String form is name.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n != "" && n == name {
			return Type(i), true
		}
	}
	return 0, false
}

// Kind is the type of filesystem entry an event refers to.
type Kind int

const (
	File Kind = iota
	Directory
	Symlink
)

// KindOf classifies info.
func KindOf(info os.FileInfo) Kind {
	switch {
	case info.IsDir():
		return Directory
	case info.Mode()&os.ModeSymlink != 0:
		return Symlink
	default:
		return File
	}
}

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Symlink:
		return "symlink"
	default:
		return "file"
	}
}

// Start returns the start event type for entries of this kind.
func (k Kind) Start() Type {
	switch k {
	case Directory:
		return CreateDirectoryStart
	case Symlink:
		return CreateSymlinkStart
	default:
		return CopyFileStart
	}
}

// Failed returns the per-entry error event type for entries of this kind.
func (k Kind) Failed() Type {
	return k.Start() + 1
}

// Done returns the complete event type for entries of this kind.
func (k Kind) Done() Type {
	return k.Start() + 2
}

// Record describes one copied entry. Stats is the source metadata taken at
// copy time.
type Record struct {
	Stats os.FileInfo
	Src   string
	Dest  string
}

// Event represents a single lifecycle event from the engine.
//
// Start and complete events carry Record. Per-entry error events carry Err
// and Record. The top-level Error event carries Err and the Src/Dest of the
// entry that failed (Stats may be nil). Complete carries Results.
type Event struct {
	Timestamp time.Time
	Err       error
	Record    Record
	Results   []Record
	Type      Type
}
