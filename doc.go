// Package textbuf provides a growable text buffer backed by pooled byte
// blocks, together with composite formatting, splitting and in-place
// replacement over its contents.
//
// A Buffer rents its storage from a Pool (DefaultPool unless WithPool is
// given) and hands it back on Free. Growth rents the larger block and copies
// into it before the old block is returned, so at most one block per buffer
// is outstanding once an operation completes.
//
//	b := textbuf.New()
//	defer b.Free()
//	b.Format("{0} and {1:X}", 5, 255) // "5 and FF"
//	b.ReplaceString("and", "or")      // "5 or FF"
//
// Templates use {index} and {index:format} holes; "{{" and "}}" are literal
// braces. Alignment ("{0,5}") is rejected. Malformed templates yield a
// *FormatError carrying the byte position and an excerpt of the template.
//
// Split and Buffer.Split enumerate the pieces of a text around a separator
// without allocating, either through a SplitEnumerator or with range:
//
//	for r, s := range textbuf.Split("a, b,,c", ",", textbuf.TrimEntries).All() {
//		fmt.Println(r.Start, r.End, s)
//	}
//
// Index positions and lengths throughout the package are byte offsets into
// UTF-8 text. Misuse of a buffer (out of range indexes, growth past
// MaximumCapacity, use after Free) panics; template faults and an empty
// replacement target are reported as errors.
//
// A Buffer is not safe for concurrent use. BucketPool is.
package textbuf
