// Command lidlog decodes a Lowell Instruments .lid data-logger file into a
// temperature CSV file and an orientation CSV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lowellinst/lidlog/internal/lidlog"
	"github.com/lowellinst/lidlog/internal/version"
)

var (
	inputPath       = flag.String("in", "", "path to the .lid input file (required)")
	tempOutPath     = flag.String("temp-out", "", "path to write the temperature CSV (default: <input>.temperature.csv)")
	oriOutPath      = flag.String("ori-out", "", "path to write the orientation CSV (default: <input>.orientation.csv)")
	forceDefaultCal = flag.Bool("force-default-calibration", false, "ignore any HSS calibration region and use the compiled-in defaults")
	showVersion     = flag.Bool("version", false, "print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("lidlog %s (commit %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *inputPath == "" {
		log.Fatalf("missing required flag -in")
	}

	tempPath := *tempOutPath
	if tempPath == "" {
		tempPath = *inputPath + ".temperature.csv"
	}
	oriPath := *oriOutPath
	if oriPath == "" {
		oriPath = *inputPath + ".orientation.csv"
	}

	if err := run(*inputPath, tempPath, oriPath, *forceDefaultCal); err != nil {
		log.Fatalf("lidlog: %v", err)
	}
}

func run(inputPath, tempPath, oriPath string, forceDefaultCal bool) error {
	src, err := lidlog.OpenFile(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	driver, err := lidlog.NewDriver(src, forceDefaultCal)
	if err != nil {
		return err
	}

	tempFile, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temperature output %q: %w", tempPath, err)
	}
	defer tempFile.Close()

	oriFile, err := os.Create(oriPath)
	if err != nil {
		return fmt.Errorf("create orientation output %q: %w", oriPath, err)
	}
	defer oriFile.Close()

	if err := driver.Decode(tempFile, oriFile); err != nil {
		return err
	}

	log.Printf("decoded %s -> %s, %s", inputPath, tempPath, oriPath)
	return nil
}
