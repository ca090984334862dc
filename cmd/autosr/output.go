package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

// printResult renders a StageResult as indented JSON to stdout, the
// same shape every stage already persists its metrics in.
func printResult(result model.StageResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Println(result.Stage, result.Status)
		return
	}
	fmt.Println(string(data))
}

func printDryRun(stage string) {
	fmt.Fprintf(os.Stderr, "dry-run: would execute stage %q for topic %q\n", stage, flags.topic)
}
