// Package profiling captures CPU, execution-trace and heap profiles for
// a search run. Runs are dominated by oracle scoring; profiles separate
// scoring cost from search bookkeeping.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session holds the profiles of one run. Start the requested profiles
// before the search, Stop after it; the heap snapshot is taken at Stop
// so it reflects the run's working set.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	heapPath  string
}

// Start begins every profile whose path is non-empty. It returns nil
// when no profile was requested.
func Start(cpuPath, tracePath, heapPath string) (*Session, error) {
	if cpuPath == "" && tracePath == "" && heapPath == "" {
		return nil, nil
	}

	s := &Session{heapPath: heapPath}

	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start CPU profile: %w", err)
		}
		s.cpuFile = f
	}

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			s.stopCPU()
			return nil, fmt.Errorf("create trace file: %w", err)
		}
		if err := trace.Start(f); err != nil {
			s.stopCPU()
			_ = f.Close()
			return nil, fmt.Errorf("start trace: %w", err)
		}
		s.traceFile = f
	}

	return s, nil
}

// Stop finishes the active profiles and writes the heap snapshot if one
// was requested. Safe to call on a nil session.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}

	s.stopCPU()

	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}

	if s.heapPath != "" {
		if err := writeHeap(s.heapPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) stopCPU() {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
