package vm

import "encoding/binary"

// Program is an assembled bytecode image: a flat byte sequence ready
// for the Machine to execute.
type Program struct {
	Code []byte
}

// emitter accumulates bytecode during compilation, with helpers to
// patch forward jump targets once the destination address is known.
type emitter struct {
	code []byte
}

func (e *emitter) here() int64 { return int64(len(e.code)) }

func (e *emitter) emit(op Opcode) int64 {
	pos := e.here()
	e.code = append(e.code, byte(op))
	return pos
}

func (e *emitter) emitInt(op Opcode, v int64) int64 {
	pos := e.here()
	e.code = append(e.code, byte(op))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	e.code = append(e.code, buf[:]...)
	return pos
}

func (e *emitter) emitHandle(op Opcode, idx uint32) int64 {
	pos := e.here()
	e.code = append(e.code, byte(op))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], idx)
	e.code = append(e.code, buf[:]...)
	return pos
}

// emitCall reserves a CALL instruction with argCount already known and
// target/frameSize as placeholders, patched once the callee is fully
// compiled (patchCall). Deferring both uniformly — even for a callee
// already compiled, such as a backward reference — keeps self-recursive
// calls (where the callee's own frameSize isn't final until its body
// finishes compiling) on the same code path as forward calls.
func (e *emitter) emitCall(argCount int64) int64 {
	pos := e.here()
	e.code = append(e.code, byte(CALL))
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[8:12], uint32(argCount))
	e.code = append(e.code, buf[:]...)
	return pos
}

func (e *emitter) patchCall(pos int64, target int64, frameSize uint32) {
	binary.LittleEndian.PutUint64(e.code[pos+1:pos+9], uint64(target))
	binary.LittleEndian.PutUint32(e.code[pos+13:pos+17], frameSize)
}

// patchInt overwrites the int64 operand of the instruction at pos
// (which must have been emitted via emitInt) with v. Used to back-patch
// forward jump targets once the destination is known.
func (e *emitter) patchInt(pos int64, v int64) {
	binary.LittleEndian.PutUint64(e.code[pos+1:pos+9], uint64(v))
}

func (e *emitter) program() *Program {
	return &Program{Code: e.code}
}

// ReadInt64 decodes the 8-byte little-endian operand immediately
// following the opcode byte at ip.
func ReadInt64(code []byte, ip int) int64 {
	return int64(binary.LittleEndian.Uint64(code[ip+1 : ip+9]))
}

// ReadUint32 decodes the 4-byte little-endian global-id operand
// immediately following the opcode byte at ip.
func ReadUint32(code []byte, ip int) uint32 {
	return binary.LittleEndian.Uint32(code[ip+1 : ip+5])
}

// readCallOperands decodes CALL's three-field operand: target address,
// argument count, and callee frame size.
func readCallOperands(code []byte, ip int) (target int64, argCount, frameSize uint32) {
	target = int64(binary.LittleEndian.Uint64(code[ip+1 : ip+9]))
	argCount = binary.LittleEndian.Uint32(code[ip+9 : ip+13])
	frameSize = binary.LittleEndian.Uint32(code[ip+13 : ip+17])
	return
}

// Disassemble renders a Program as one line per instruction, for tests
// and debugging.
func Disassemble(p *Program) []string {
	var lines []string
	ip := 0
	for ip < len(p.Code) {
		op := Opcode(p.Code[ip])
		switch {
		case op == CALL:
			target, argCount, frameSize := readCallOperands(p.Code, ip)
			lines = append(lines, "CALL "+itoa(target)+" "+itoa(int64(argCount))+" "+itoa(int64(frameSize)))
			ip += 17
		case op.OperandWidth() == 8:
			lines = append(lines, opText(op, ReadInt64(p.Code, ip)))
			ip += 9
		case op.OperandWidth() == 4:
			lines = append(lines, opText(op, int64(ReadUint32(p.Code, ip))))
			ip += 5
		default:
			lines = append(lines, op.String())
			ip++
		}
	}
	return lines
}

func opText(op Opcode, operand int64) string {
	return op.String() + " " + itoa(operand)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
