package keys

// Terminal input decoding for the raw-mode keyboard producer. Only the
// legacy xterm sequences are handled; anything unrecognized is dropped so a
// stray escape sequence can never be mistaken for a command key.

const escByte = 0x1b

// Decode parses the first key event from buf and returns the event, the
// number of bytes consumed, and whether an event was produced. Unrecognized
// bytes consume one byte with ok=false.
func Decode(buf []byte) (Event, int, bool) {
	if len(buf) == 0 {
		return Event{}, 0, false
	}

	b := buf[0]
	switch b {
	case '\r', '\n':
		return Event{Kind: KindEnter}, 1, true
	case 0x7f, 0x08:
		return Event{Kind: KindBackspace}, 1, true
	case '\t':
		return Event{Kind: KindTab}, 1, true
	case escByte:
		return decodeEscape(buf)
	}

	if b < 0x20 {
		// Control characters map to Ctrl+letter.
		letter := rune(b-1) + 'A'
		if letter >= 'A' && letter <= 'Z' {
			return Event{Kind: KindRune, Rune: letter, Mods: ModCtrl}, 1, true
		}
		return Event{}, 1, false
	}

	r := rune(b)
	ev := Event{Kind: KindRune, Rune: r}
	if r >= 'A' && r <= 'Z' {
		ev.Mods = ModShift
	}
	return ev, 1, true
}

// DecodeAll parses every recognizable event from buf, skipping junk bytes.
func DecodeAll(buf []byte) []Event {
	var events []Event
	for len(buf) > 0 {
		ev, n, ok := Decode(buf)
		if n == 0 {
			break
		}
		if ok {
			events = append(events, ev)
		}
		buf = buf[n:]
	}
	return events
}

func decodeEscape(buf []byte) (Event, int, bool) {
	if len(buf) == 1 {
		return Event{Kind: KindEscape}, 1, true
	}

	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		// SS3 function keys F1-F4.
		if len(buf) >= 3 {
			if f := ss3Func(buf[2]); f != 0 {
				return Event{Kind: KindFunc, Func: f}, 3, true
			}
			return Event{}, 3, false
		}
		return Event{Kind: KindEscape}, 1, true
	default:
		// ESC-prefixed printable is Alt+key.
		ev, n, ok := Decode(buf[1:])
		if ok && ev.Kind == KindRune {
			ev.Mods |= ModAlt
			return ev, n + 1, true
		}
		return Event{Kind: KindEscape}, 1, true
	}
}

// decodeCSI handles "ESC [ params final" sequences: arrows, modified
// arrows, and function keys F5-F12.
func decodeCSI(buf []byte) (Event, int, bool) {
	// Find the final byte (0x40-0x7e).
	end := -1
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end == -1 {
		// Incomplete sequence; swallow it.
		return Event{}, len(buf), false
	}
	params := string(buf[2:end])
	final := buf[end]
	consumed := end + 1

	mods := csiMods(params)

	switch final {
	case 'A':
		return Event{Kind: KindUp, Mods: mods}, consumed, true
	case 'B':
		return Event{Kind: KindDown, Mods: mods}, consumed, true
	case 'C':
		return Event{Kind: KindRight, Mods: mods}, consumed, true
	case 'D':
		return Event{Kind: KindLeft, Mods: mods}, consumed, true
	case 'P', 'Q', 'R', 'S':
		// xterm sends CSI 1;m P..S for modified F1-F4.
		return Event{Kind: KindFunc, Func: int(final-'P') + 1, Mods: mods}, consumed, true
	case '~':
		if f := tildeFunc(leadingNumber(params)); f != 0 {
			return Event{Kind: KindFunc, Func: f, Mods: mods}, consumed, true
		}
		return Event{}, consumed, false
	default:
		return Event{}, consumed, false
	}
}

// csiMods extracts the modifier parameter from "1;m" style params. The
// encoded value is m-1 with bit 0 shift, bit 1 alt, bit 2 ctrl.
func csiMods(params string) Mods {
	sep := -1
	for i := 0; i < len(params); i++ {
		if params[i] == ';' {
			sep = i
			break
		}
	}
	if sep == -1 {
		return 0
	}
	m := 0
	for i := sep + 1; i < len(params); i++ {
		c := params[i]
		if c < '0' || c > '9' {
			return 0
		}
		m = m*10 + int(c-'0')
	}
	if m < 2 {
		return 0
	}
	bits := m - 1
	var mods Mods
	if bits&1 != 0 {
		mods |= ModShift
	}
	if bits&2 != 0 {
		mods |= ModAlt
	}
	if bits&4 != 0 {
		mods |= ModCtrl
	}
	return mods
}

func leadingNumber(params string) int {
	n := 0
	for i := 0; i < len(params); i++ {
		c := params[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func ss3Func(b byte) int {
	switch b {
	case 'P':
		return 1
	case 'Q':
		return 2
	case 'R':
		return 3
	case 'S':
		return 4
	default:
		return 0
	}
}

func tildeFunc(n int) int {
	switch n {
	case 11, 12, 13, 14:
		return n - 10
	case 15:
		return 5
	case 17, 18, 19, 20, 21:
		return n - 11
	case 23, 24:
		return n - 12
	default:
		return 0
	}
}
