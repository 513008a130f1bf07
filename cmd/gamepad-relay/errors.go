package main

const (
	errUnknownMode = "unknown mode '%s'"
)
