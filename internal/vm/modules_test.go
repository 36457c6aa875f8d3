package vm

import "testing"

func runSession(t *testing.T, sources ...string) Value {
	t.Helper()
	machine := New(nil)
	var last Value
	for _, src := range sources {
		v, err := machine.Run(compileSrc(t, src))
		if err != nil {
			t.Fatalf("runtime error in %q: %s", src, err)
		}
		last = v
	}
	return last
}

func TestSessionCallsFunctionFromEarlierUnit(t *testing.T) {
	// the body's constant operands must resolve against the pool of the
	// unit that compiled it, not the unit currently running
	v := runSession(t,
		"def triple x = x * 3",
		"triple 5",
	)
	testNum(t, v, 15)
}

func TestSessionKeepsConstantsAcrossManyUnits(t *testing.T) {
	v := runSession(t,
		`def greet name = "hello, " + name`,
		"def shout s = Str.upper (greet s)",
		`shout "ada"`,
	)
	if !v.IsStr() || v.AsStr() != "HELLO, ADA" {
		t.Fatalf("got %s", v.Inspect())
	}
}

func TestUserModulePositionalConstruction(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"let p = Point 1 2 in p.x + p.y",
	)
	testNum(t, v, 3)
}

func TestUserModuleNamedConstruction(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"(%Point{x: 3, y: 4}).y",
	)
	testNum(t, v, 4)
}

func TestInstanceTypeIsItsModule(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"Point 1 2 is Point",
	)
	testBool(t, v, true)
}

func TestModuleConstructionChecksArity(t *testing.T) {
	machine := New(nil)
	if _, err := machine.Run(compileSrc(t, `def Point = Module.new "Point" [:x, :y]`)); err != nil {
		t.Fatal(err)
	}
	_, err := machine.Run(compileSrc(t, "Point 1"))
	if err == nil {
		t.Fatal("expected an arity fault")
	}
}

func TestInstanceMethodGetsReceiverLast(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"Module.fn :scale (fn n self = %Point{x: self.x * n, y: self.y * n}) Point",
		"let p = (Point 1 2).scale 10 in p.x + p.y",
	)
	testNum(t, v, 30)
}

func TestMissingInstanceFieldReadsNil(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"(Point 1 2).z",
	)
	if !v.IsNil() {
		t.Fatalf("expected nil, got %s", v.Inspect())
	}
}

func TestInstanceInspect(t *testing.T) {
	v := runSession(t,
		`def Point = Module.new "Point" [:x, :y]`,
		"Point 1 2",
	)
	if v.Inspect() != "%Point{x: 1, y: 2}" {
		t.Fatalf("got %s", v.Inspect())
	}
}
