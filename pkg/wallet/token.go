package wallet

import "regexp"

// DefaultKeyToken selects the wallet's default key.
const DefaultKeyToken = "default-key"

var (
	wifPattern = regexp.MustCompile(`^[5KL][1-9A-HJ-NP-Za-km-z]{50,51}$`)

	// Unanchored: any run of 60-64 lowercase hex characters counts as a private key.
	privateKeyPattern = regexp.MustCompile(`[0-9a-f]{60,64}`)
)

// TokenKind is the kind of key reference a request resolves to.
type TokenKind int

const (
	KindDefault TokenKind = iota
	KindWIF
	KindPrivateKey
	KindLabel
	KindUnrecognized
)

func (k TokenKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindWIF:
		return "wif"
	case KindPrivateKey:
		return "private key"
	case KindLabel:
		return "label"
	default:
		return "unrecognized"
	}
}

// Request names the key a caller wants: either the default key or a token.
type Request struct {
	token      string
	useDefault bool
}

// Default requests the wallet's default key.
func Default() Request {
	return Request{useDefault: true}
}

// Token requests the key denoted by s. An empty s or "default-key" still
// selects the default key.
func Token(s string) Request {
	return Request{token: s}
}

// String returns the raw token, or "default-key" for a default request.
func (r Request) String() string {
	if r.useDefault {
		return DefaultKeyToken
	}
	return r.token
}

// IsWIF reports whether s has the lexical shape of a mainnet WIF.
func IsWIF(s string) bool {
	return wifPattern.MatchString(s)
}

// IsPrivateKey reports whether s contains a hex private key.
func IsPrivateKey(s string) bool {
	return privateKeyPattern.MatchString(s)
}

type classifier struct {
	kind  TokenKind
	match func(w *Wallet, token string) bool
}

// classifiers run in order; the first match decides the kind. Lexical shape is
// checked before label identity, so a WIF-shaped label is never reached as a label.
var classifiers = []classifier{
	{KindDefault, func(_ *Wallet, token string) bool { return token == "" || token == DefaultKeyToken }},
	{KindWIF, func(_ *Wallet, token string) bool { return IsWIF(token) }},
	{KindPrivateKey, func(_ *Wallet, token string) bool { return IsPrivateKey(token) }},
	{KindLabel, func(w *Wallet, token string) bool { return w.HasLabel(token) }},
}

// Classify returns the kind of key reference r is for this wallet.
func (w *Wallet) Classify(r Request) TokenKind {
	if r.useDefault {
		return KindDefault
	}
	for _, c := range classifiers {
		if c.match(w, r.token) {
			return c.kind
		}
	}
	return KindUnrecognized
}
