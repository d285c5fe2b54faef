package codec

import "golang.org/x/text/encoding/charmap"

// ISO88591 is the one alternate encoding a Bowler device firmware has been
// observed to emit in its _nms/_rpc introspection strings. Pass it as the
// enc argument to Deserialize/ToString/ToRawString when the default
// ASCII/raw pass-through garbles non-ASCII bytes.
var ISO88591 = charmap.ISO8859_1
