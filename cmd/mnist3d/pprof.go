package main

import "log/slog"
import "os"
import "runtime/pprof"

var profileFile *os.File

// startProfile collects a cpu profile into the --cpuprofile file until stopProfile
func startProfile(log *slog.Logger) error {
	if cpuProfile == "" {
		return nil
	}
	f, err := os.Create(cpuProfile)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	profileFile = f
	log.Debug("cpu profile started", "file", cpuProfile)
	return nil
}

func stopProfile(log *slog.Logger) {
	if profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	if err := profileFile.Close(); err != nil {
		log.Warn("cpu profile", "error", err)
	}
	profileFile = nil
}
