package web

import "embed"

// StaticFS embeds the single-page client shell.
//
//go:embed static/*
var StaticFS embed.FS
