// Package main provides sinctl, a local front end to the SIN codec. It runs
// the codec in process: no server, no attempt limiting, no audit trail.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"sunhex/internal/sin"
	"sunhex/internal/token/models"
	"sunhex/internal/token/service"
)

type generateOutput struct {
	HexCode string     `json:"hexCode"`
	Trace   *sin.Trace `json:"debugInfo,omitempty"`
}

type decodeOutput struct {
	PersonalInfo sin.PersonalInfo `json:"personalInfo"`
	Trace        *sin.DecodeTrace `json:"debugInfo,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	svc := service.New()
	ctx := context.Background()

	switch args[0] {
	case "generate":
		return runGenerate(ctx, svc, args[1:], stdout, stderr)
	case "decode":
		return runDecode(ctx, svc, args[1:], stdout, stderr)
	case "countries":
		return printJSON(stdout, stderr, svc.Countries(ctx))
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
}

func runGenerate(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	first := fs.String("first", "", "First name (letters and hyphens)")
	last := fs.String("last", "", "Last name (letters and hyphens)")
	country := fs.String("country", "", "ISO 3166-1 alpha-2 country code")
	year := fs.String("year", "", "Birth year (YYYY)")
	month := fs.String("month", "", "Birth month (1-12)")
	day := fs.String("day", "", "Birth day (1-31)")
	gender := fs.String("gender", "", "male or female")
	pin := fs.Int64("pin", 0, "Numeric PIN")
	trace := fs.Bool("trace", false, "Include the intermediate SIN and field encodings")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if missing := missingFlags(fs, "first", "last", "country", "year", "month", "day", "gender", "pin"); len(missing) > 0 {
		fmt.Fprintf(stderr, "Missing required flags: %s\n", strings.Join(missing, ", "))
		return 1
	}

	res, err := svc.Generate(ctx, models.GenerateCommand{
		Info: sin.PersonalInfo{
			FirstName:   *first,
			LastName:    *last,
			CountryCode: strings.ToUpper(*country),
			BirthYear:   *year,
			BirthMonth:  *month,
			BirthDay:    *day,
			Gender:      *gender,
		},
		PIN: *pin,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := generateOutput{HexCode: res.Token}
	if *trace {
		out.Trace = res.Trace
	}
	return printJSON(stdout, stderr, out)
}

func runDecode(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	hexCode := fs.String("hex", "", "Hex code to decode")
	pin := fs.Int64("pin", 0, "Numeric PIN used at generation")
	trace := fs.Bool("trace", false, "Include the intermediate SIN and field encodings")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if missing := missingFlags(fs, "hex", "pin"); len(missing) > 0 {
		fmt.Fprintf(stderr, "Missing required flags: %s\n", strings.Join(missing, ", "))
		return 1
	}

	res, err := svc.Decode(ctx, models.DecodeCommand{Token: strings.TrimSpace(*hexCode), PIN: *pin})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := decodeOutput{PersonalInfo: res.Info}
	if *trace {
		out.Trace = res.Trace
	}
	return printJSON(stdout, stderr, out)
}

// missingFlags lists required flags that were never set on the command line.
func missingFlags(fs *flag.FlagSet, names ...string) []string {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var missing []string
	for _, n := range names {
		if !set[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `sinctl - encode and decode SIN hex codes locally

Usage:
  sinctl <command> [flags]

Commands:
  generate   Turn personal information and a PIN into a hex code
  decode     Recover personal information from a hex code and PIN
  countries  List supported country codes

Examples:
  sinctl generate -first Ahmed -last Benali -country MA -year 1995 -month 3 -day 22 -gender male -pin 5678
  sinctl decode -hex 1CE186F670CC698FD77D624DB1FB34A8A31D7CC23432C63563ADB9079A -pin 5678
  sinctl decode -hex <code> -pin 5678 -trace

Use "sinctl <command> -h" for more information about a command.`)
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error encoding JSON: %v\n", err)
		return 1
	}
	return 0
}
