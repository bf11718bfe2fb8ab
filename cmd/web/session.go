package main

const (
	studySessionIDKey = "studySessionID"
	themeKey          = "theme"
)
