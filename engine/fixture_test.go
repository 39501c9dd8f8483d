package engine

// addModule returns a minimal core module exporting add(i32, i32) -> i32.
// Hand-assembled so tests carry no file fixtures.
func addModule() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
		0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type: (i32, i32) -> i32
		0x03, 0x02, 0x01, 0x00, // func section: one func, type 0
		0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00, // export "add" func 0
		0x0a, 0x09, 0x01, 0x07, 0x00, // code section, one body
		0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // local.get 0; local.get 1; i32.add; end
	}
}
