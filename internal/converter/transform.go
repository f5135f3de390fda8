package converter

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Transformer returns a transform.Transformer that performs the same
// conversion as Convert on a byte stream. Output does not depend on how the
// input is split into chunks: while a longer key could still match, the
// transformer holds the input back and asks for more.
func (e *Engine) Transformer() transform.Transformer {
	return &transformer{e: e}
}

type transformer struct {
	transform.NopResetter
	e *Engine
}

func (t *transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		rest := src[nSrc:]

		value, n, ok, more := t.e.trie.Walk(rest, atEOF)
		if more {
			return nDst, nSrc, transform.ErrShortSrc
		}

		if ok {
			if nDst+len(value) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], value)
			nSrc += n
			continue
		}

		if !atEOF && !utf8.FullRune(rest) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		_, size := utf8.DecodeRune(rest)
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], rest[:size])
		nSrc += size
	}
	return nDst, nSrc, nil
}
