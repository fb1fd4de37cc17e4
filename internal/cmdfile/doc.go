// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdfile reads `.upbuild` command files.
//
// A command file is newline delimited. Each line is one of:
//
//	# comment          ignored, as are blank lines
//	@name              directive without a value (@manual, @disable)
//	@name=value        directive with a value (@tags=a,b, @retmap=1=>0, @cd=build)
//	--                 separates the mandatory arguments from the overridable ones
//	&&                 ends a command and starts the next one in the chain
//	@---               ends the header section (@env=FILE lines before any command)
//	anything else      an argument
//
// Tokenize turns the lines into Tokens, and Compile groups the tokens into a Plan.
package cmdfile
