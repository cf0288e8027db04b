package keypair

import "strings"

// Output format placeholders.
const (
	PlaceholderLabel   = "<label>"
	PlaceholderPub     = "<pub>"
	PlaceholderPubC    = "<pubc>"
	PlaceholderPubU    = "<pubu>"
	PlaceholderPriv    = "<priv>"
	PlaceholderWIF     = "<wif>"
	PlaceholderWIFC    = "<wifc>"
	PlaceholderWIFU    = "<wifu>"
	PlaceholderEth     = "<eth>"
	PlaceholderFull    = "<full>"
	PlaceholderNetwork = "<network>"
)

// FullFormat is the expansion of the <full> placeholder.
const FullFormat = `label:          <label>
network:        <network>
address:        <pub>
  compressed:   <pubc>
  uncompressed: <pubu>
evm address:    <eth>
private key:    <priv>
wif:            <wif>
  compressed:   <wifc>
  uncompressed: <wifu>`

// Format renders the key pair using a template in which each placeholder is
// replaced by the corresponding value. An empty format prints the address,
// preceded by the label and a tab when the key is labelled.
func (kp *KeyPair) Format(format string) string {
	if format == "" {
		format = PlaceholderPub
		if kp.label != "" {
			format = PlaceholderLabel + "\t" + PlaceholderPub
		}
	}
	format = strings.ReplaceAll(format, PlaceholderFull, FullFormat)

	r := strings.NewReplacer(
		PlaceholderLabel, kp.label,
		PlaceholderPubC, kp.CompressedAddress(),
		PlaceholderPubU, kp.UncompressedAddress(),
		PlaceholderPub, kp.Address(),
		PlaceholderPriv, kp.PrivateKey(),
		PlaceholderWIFC, kp.CompressedWIF(),
		PlaceholderWIFU, kp.UncompressedWIF(),
		PlaceholderWIF, kp.wif,
		PlaceholderEth, kp.EthereumAddress(),
		PlaceholderNetwork, kp.net.Name,
	)
	return r.Replace(format)
}

// String implements fmt.Stringer using the default format.
func (kp *KeyPair) String() string {
	return kp.Format("")
}
