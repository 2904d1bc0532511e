// Package harness runs channel scenarios through the streaming pipeline and
// checks the decoded output.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: four_users_alternating
//	description: "Alternating users transmit ones"
//	width: 4            # optional, default 4
//	symbols: strict     # optional: strict | lenient
//	overlength: truncate
//	fill: "0"
//	sentinel: exit
//	frames: ["0101", "1", "exit"]
//	expect:
//	  decoded: ["0101", "1000"]
//	  histories: { 1: "01", 2: "10", 3: "00", 4: "10" }
//	  rejected: 0
//
// Unset channel fields fall back to the config schema defaults. Tokens after
// the sentinel are never read.
//
// # Deterministic Testing
//
// Every scenario runs on a fresh pipeline with a discard logger and
// sequential frame ids ("frame-0001", ...), so traces are identical across
// runs and can be compared against golden files:
//
//	go test ./internal/harness -update
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/alternating.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
