package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vcsi/pingcastle/internal/license"
)

// keyEnvVar is consulted when neither -key nor -file is given.
const keyEnvVar = "PINGCASTLE_LICENSE_KEY"

func main() {
	key := flag.String("key", "", "license key to verify")
	file := flag.String("file", "", "file containing the license key")
	flag.Parse()

	value, err := resolveKey(*key, *file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "license-check: %v\n", err)
		os.Exit(2)
	}

	lic, err := license.Verify(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, "license-check: invalid license")
		os.Exit(1)
	}

	printLicense(lic)
	if lic.Expired(time.Now()) {
		fmt.Println("status:               expired")
		os.Exit(1)
	}
	fmt.Println("status:               valid")
}

func resolveKey(key, file string) (string, error) {
	if key != "" {
		return key, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if env := os.Getenv(keyEnvVar); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no license key given, use -key, -file or %s", keyEnvVar)
}

func printLicense(lic *license.License) {
	fmt.Printf("end time:             %s\n", lic.EndTime().Format(time.RFC3339))
	if v, ok := lic.DomainLimitation(); ok {
		fmt.Printf("domain limitation:    %s\n", v)
	}
	if v, ok := lic.CustomerNotice(); ok {
		fmt.Printf("customer notice:      %s\n", v)
	}
	if v, ok := lic.Edition(); ok {
		fmt.Printf("edition:              %s\n", v)
	}
	if v, ok := lic.DomainNumberLimit(); ok {
		fmt.Printf("domain number limit:  %d\n", v)
	}
}
