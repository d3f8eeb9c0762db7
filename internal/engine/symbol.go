package engine

import "fmt"

// Symbol - тип символа на поле. Обычные символы идут по возрастанию ценности,
// последние два - специальные (скаттер и бомба-множитель).
type Symbol uint8

const (
	Banana Symbol = iota
	Grapes
	Watermelon
	Plum
	Apple
	BlueCandy
	GreenCandy
	PurpleCandy
	RedHeart
	Scatter
	Orb
)

const (
	// RegularSymbolCount - количество символов, способных образовать кластер
	RegularSymbolCount = int(Scatter)
	// SymbolCount - все символы, включая специальные
	SymbolCount = int(Orb) + 1
)

var symbolNames = [SymbolCount]string{
	"banana",
	"grapes",
	"watermelon",
	"plum",
	"apple",
	"blue_candy",
	"green_candy",
	"purple_candy",
	"red_heart",
	"scatter",
	"orb",
}

func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("symbol(%d)", uint8(s))
	}
	return symbolNames[s]
}

func (s Symbol) Valid() bool {
	return int(s) < SymbolCount
}

// Special - скаттер и бомба никогда не образуют кластер
func (s Symbol) Special() bool {
	return s == Scatter || s == Orb
}

func (s Symbol) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("engine: invalid symbol %d", uint8(s))
	}
	return []byte(symbolNames[s]), nil
}

func (s *Symbol) UnmarshalText(text []byte) error {
	sym, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*s = sym
	return nil
}

// ParseSymbol ищет символ по имени из конфига
func ParseSymbol(name string) (Symbol, error) {
	for i, n := range symbolNames {
		if n == name {
			return Symbol(i), nil
		}
	}
	return 0, fmt.Errorf("engine: unknown symbol %q", name)
}

// Symbols возвращает все символы в порядке перечисления
func Symbols() []Symbol {
	out := make([]Symbol, SymbolCount)
	for i := range out {
		out[i] = Symbol(i)
	}
	return out
}
