// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

import "errors"

// Sentinel errors for the translation service.
var (
	// ErrVerifyFailed indicates the generated Python did not parse.
	ErrVerifyFailed = errors.New("generated python failed verification")

	// ErrNotSource indicates a path with an extension no parser handles.
	ErrNotSource = errors.New("not a javascript source file")

	// ErrNoSources indicates the given paths contained no source files.
	ErrNoSources = errors.New("no javascript source files found")
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnsupportedConstruct = "UNSUPPORTED_CONSTRUCT"
	CodeParseFailed          = "PARSE_FAILED"
	CodeInvalidContent       = "INVALID_CONTENT"
	CodeFileTooLarge         = "FILE_TOO_LARGE"
	CodeVerifyFailed         = "VERIFY_FAILED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeTranslateFailed      = "TRANSLATE_FAILED"
)
