// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command js2py translates JavaScript sources into Python.
//
// Usage:
//
//	js2py convert src/            # write src/**/name.py next to each source
//	js2py convert -o out a.js     # write out/a.py
//	js2py convert --stdout a.js   # print the translation
//	echo 'a === b' | js2py convert -
//	js2py check src/              # exit 1 and print a diff when a .py is stale
//	js2py watch src/              # re-translate on change
//	js2py serve --port 12220      # HTTP API under /v1/js2py
//	js2py init                    # write a default js2py.yaml
//	js2py version
//
// Exit codes: 0 success, 1 check found differences, 2 failure.
//
// Example API calls:
//
//	curl http://localhost:12220/v1/js2py/health
//
//	curl -X POST http://localhost:12220/v1/js2py/translate \
//	  -H "Content-Type: application/json" \
//	  -d '{"source": "z.push(a)", "file_path": "z.js"}'
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
