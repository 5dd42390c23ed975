package lsa

import "golang.org/x/sys/windows"

// Token is a primary access token handle
type Token = windows.Token
