package main

import (
	"encoding/base64"
	"encoding/hex"
	. "fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lsh-go/lsh"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
)

// Copyright © 2024 The lsh-go Authors. Licensed under the Apache-2.0 license.
// This program is a command-line interface for lsh: It handles various flags and an unlimited
// number of arguments, processing files as required by the command-line operator.

const n = "\n"
const success, failure, invalid = 0, 1, 2

var warnings = 0

func main() { os.Exit(program()) }

// help prints a usage menu and quietly exits if no non-flag arguments are given. To consistently
// correctly render this menu in most terminal windows, its content should be no wider than 80
// columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "lshsum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "The LSH cryptographic hashing algorithm (KS X 3262).", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-bt] [-a <name>] [-l <uint>] [--quiet|no-codes] [--strict] -|PATH..."+n,
		spaces, "[-bt] [-a <name>] [-l <uint>] [--quiet|no-codes] [--strict] -s STRING..."+n+n+
			"Options:"+n)
	PrintDefaults()
	Fprint(os.Stderr, n+"Variants:")
	for _, v := range lsh.Variants() {
		Fprintf(os.Stderr, " %s", v.Name)
	}
	name = vainpath.Trim(origin, "…", 15)
	Fprint(os.Stderr, n+n+"Order of arguments placed after `", name, "` does not matter unless `--` is"+
		n+"specified, signaling the end of parsed flags. Long-form flag equivalents are"+n+
		"above. `-` is treated as a reference to ", os.Stdin.Name(), " on this platform."+n)
}

func program() int {
	if pHelp || NArg() == 0 {
		help()
		return success
	}

	digest, err := lsh.NewByName(pAlg)
	if err != nil {
		Fprint(os.Stderr, purp, err.Error(), zero, n)
		return invalid
	}
	length := int(pLength)
	if length == 0 {
		length = digest.Size()
	} else if length > digest.Size() {
		Fprint(os.Stderr, purp, "Digest length must be between 1 and ",
			digest.Size(), " bytes for ", digest.AlgorithmName(), ".", zero, n)
		return invalid
	}

	for i, target := range Args() {
		if i > 0 {
			digest.Reset()
		}
		start, delta := time.Now(), ""

		if pString {
			if _, err := digest.Write([]byte(target)); err != nil {
				warn(err)
				continue
			}
		} else if target == "-" || target == os.Stdin.Name() {
			if _, err := io.Copy(digest, os.Stdin); err != nil {
				warn(err)
				continue
			}
			go os.Stdin.Close() /* STDIN should not be reused. */
		} else {
			file, err := os.Open(target)
			if err != nil {
				warn(err)
				continue
			}
			_, err = io.Copy(digest, file)
			go file.Close()
			if err != nil {
				warn(err)
				continue
			}
		}

		if pTime {
			d := time.Since(start)
			if d.Microseconds() > 99 {
				d = d.Truncate(10 * time.Microsecond)
			}
			delta = " (" + d.String() + ")"
		}

		sum, err := digest.Finish(length)
		if err != nil {
			warn(err)
			continue
		}

		str := hex.EncodeToString(sum)
		if pBase64 {
			str = base64.StdEncoding.EncodeToString(sum)
		}
		if pQuiet {
			Print(str, n)
		} else if pString {
			Print(yell, str, zero, `  "`, target, `"`, delta, n)
		} else if pNoCodes {
			Print(str, `  `, filepath.Clean(target), delta, n)
		} else {
			Print(yell, str, zero, `  `, und, vainpath.Simplify(target), zero, delta, n)
		}
	}

	if !pQuiet {
		if warnings == 1 {
			Fprint(os.Stderr, "1 ", purp, "target is a directory or is otherwise inaccessible.", zero, n)
		} else if warnings > 1 {
			Fprint(os.Stderr, warnings, " ", purp, "targets are directories or are otherwise inaccessible.", zero, n)
		}
	}
	if warnings > 0 {
		return failure
	}
	return success
}

func warn(err error) {
	if pStrict {
		Fprint(os.Stderr, purp, err.Error(), zero, n)
		os.Exit(failure)
	}
	warnings++
}
