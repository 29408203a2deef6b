package main

import (
	"flag"
	"strings"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	Countries        []string
	DataDir          string
	History          int
	Snapshots        string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	countriesFlag := flag.String("countries", "", "Comma-separated alpha-3 codes to sync (default: every enabled country)")
	countriesFlagAlias := flag.String("k", "", "Alias for -countries")

	dataDirFlag := flag.String("data-dir", "", "Directory holding the per-country JSON files (overrides storage_config.data_dir)")
	dataDirFlagAlias := flag.String("d", "", "Alias for -data-dir")

	historyFlag := flag.Int("history", 0, "Print the N most recent runs from the run history and exit (per country with -countries)")
	snapshotsFlag := flag.String("snapshots", "", "Print the archived snapshots of one alpha-3 country and exit")

	flag.Parse()

	flags := AppFlags{History: *historyFlag, Snapshots: strings.ToUpper(strings.TrimSpace(*snapshotsFlag))}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	countries := *countriesFlag
	if countries == "" {
		countries = *countriesFlagAlias
	}
	flags.Countries = splitCountries(countries)

	if *dataDirFlag != "" {
		flags.DataDir = *dataDirFlag
	} else if *dataDirFlagAlias != "" {
		flags.DataDir = *dataDirFlagAlias
	}

	return flags
}

func splitCountries(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if code := strings.ToUpper(strings.TrimSpace(part)); code != "" {
			out = append(out, code)
		}
	}
	return out
}
