package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/domain"
)

// readText returns the inline args joined by spaces, the named file, or stdin
// when the file is "-" or nothing else was given.
func readText(cmd *cobra.Command, file string, args []string) (string, error) {
	if len(args) > 0 && file == "" {
		return strings.Join(args, " "), nil
	}
	var data []byte
	var err error
	if file == "" || file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no input text")
	}
	return text, nil
}

func parseLangFlag(value string) (domain.Lang, error) {
	if strings.TrimSpace(value) == "" {
		return "", errors.New("--lang is required (en, ja or zh)")
	}
	return domain.ParseLang(value)
}
