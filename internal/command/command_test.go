package command

import (
	"testing"

	"github.com/corewall/ossim/internal/alu"
)

func TestConstructors(t *testing.T) {
	c := ALU(4, 5, alu.ADD)
	if c.Kind != KindALU || c.Addr1 != 4 || c.Addr2 != 5 || c.Op != alu.ADD {
		t.Errorf("ALU() got: %+v", c)
	}

	io := IO(3)
	if io.Kind != KindIO || io.Duration != 3 {
		t.Errorf("IO() got: %+v", io)
	}

	e := Exit()
	if e.Kind != KindExit {
		t.Errorf("Exit() got: %+v", e)
	}
}
