package symbols

import (
	"testing"

	"apiscan/internal/decl"
	"apiscan/internal/scope"
	"apiscan/internal/source"
)

func trackerWith(t *testing.T, push func(tr *scope.Tracker)) Context {
	t.Helper()
	tr := scope.NewTracker(scope.Options{})
	if push != nil {
		push(tr)
	}
	return ContextOf(tr)
}

func TestClassify(t *testing.T) {
	var sp source.Span
	tests := []struct {
		name string
		d    decl.Decl
		push func(tr *scope.Tracker)
		vis  Visibility
		link Linkage
		path string
	}{
		{
			name: "file scope function",
			d:    decl.Decl{Shape: decl.Function, Name: "public_func"},
			vis:  Public, link: LinkageExternal, path: "public_func",
		},
		{
			name: "static at file scope",
			d:    decl.Decl{Shape: decl.Variable, Name: "internal_counter", Modifiers: decl.ModStatic},
			vis:  Internal, link: LinkageInternal, path: "internal_counter",
		},
		{
			name: "namespace member",
			d:    decl.Decl{Shape: decl.Function, Name: "clamp"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindNamespace, "Utils", false, sp) },
			vis:  Public, link: LinkageExternal, path: "Utils::clamp",
		},
		{
			name: "anonymous namespace",
			d:    decl.Decl{Shape: decl.Function, Name: "helper"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindNamespace, "", false, sp) },
			vis:  Internal, link: LinkageInternal, path: "helper",
		},
		{
			name: "private class member",
			d:    decl.Decl{Shape: decl.Function, Name: "log_internal"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindClass, "RequestHandler", false, sp) },
			vis:  Inaccessible, link: LinkageNone, path: "RequestHandler::log_internal",
		},
		{
			name: "public class member",
			d:    decl.Decl{Shape: decl.Function, Name: "handle"},
			push: func(tr *scope.Tracker) {
				tr.Push(scope.KindClass, "RequestHandler", false, sp)
				tr.SetAccess(scope.AccessPublic)
			},
			vis: Public, link: LinkageNone, path: "RequestHandler::handle",
		},
		{
			name: "struct member",
			d:    decl.Decl{Shape: decl.Variable, Name: "value"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindStruct, "PublicStruct", false, sp) },
			vis:  Public, link: LinkageNone, path: "PublicStruct::value",
		},
		{
			name: "nested struct keeps its own access",
			d:    decl.Decl{Shape: decl.Variable, Name: "x"},
			push: func(tr *scope.Tracker) {
				tr.Push(scope.KindClass, "Outer", false, sp)
				tr.Push(scope.KindStruct, "Inner", false, sp)
			},
			vis: Public, link: LinkageNone, path: "Outer::Inner::x",
		},
		{
			name: "enumerator of file scope enum",
			d:    decl.Decl{Shape: decl.Enumerator, Name: "STATE_IDLE"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindEnum, "", false, sp) },
			vis:  Public, link: LinkageExternal, path: "STATE_IDLE",
		},
		{
			name: "enumerator of private nested enum class",
			d:    decl.Decl{Shape: decl.Enumerator, Name: "Red"},
			push: func(tr *scope.Tracker) {
				tr.Push(scope.KindClass, "Palette", false, sp)
				tr.Push(scope.KindEnum, "Color", true, sp)
			},
			vis: Inaccessible, link: LinkageNone, path: "Palette::Color::Red",
		},
		{
			name: "extern C block is transparent",
			d:    decl.Decl{Shape: decl.Function, Name: "c_api"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindExtern, "", false, sp) },
			vis:  Public, link: LinkageExternal, path: "c_api",
		},
		{
			name: "out of line definition",
			d:    decl.Decl{Shape: decl.Function, Name: "bar", Qualifier: []string{"Foo"}},
			vis:  Public, link: LinkageExternal, path: "Foo::bar",
		},
		{
			name: "macro",
			d:    decl.Decl{Shape: decl.Macro, Name: "MAX_SIZE"},
			push: func(tr *scope.Tracker) { tr.Push(scope.KindClass, "C", false, sp) },
			vis:  Public, link: LinkageNone, path: "C::MAX_SIZE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Classify(nil, tt.d, trackerWith(t, tt.push), "")
			if rec.Visibility != tt.vis {
				t.Errorf("visibility = %s, want %s", rec.Visibility, tt.vis)
			}
			if rec.Linkage != tt.link {
				t.Errorf("linkage = %s, want %s", rec.Linkage, tt.link)
			}
			if got := rec.ScopePath(); got != tt.path {
				t.Errorf("scope path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestClassifyMethods(t *testing.T) {
	var sp source.Span
	inClass := func(tr *scope.Tracker) { tr.Push(scope.KindClass, "Widget", false, sp) }
	inNamespace := func(tr *scope.Tracker) { tr.Push(scope.KindNamespace, "ui", false, sp) }
	classes := map[string]bool{"Widget": true, "ui::Widget": true}
	tests := []struct {
		name string
		d    decl.Decl
		push func(tr *scope.Tracker)
		want Kind
	}{
		{"member function", decl.Decl{Shape: decl.Function, Name: "draw"}, inClass, KindMethod},
		{"member variable", decl.Decl{Shape: decl.Variable, Name: "w"}, inClass, KindVariable},
		{"free function", decl.Decl{Shape: decl.Function, Name: "draw"}, nil, KindFunction},
		{"out of line member", decl.Decl{Shape: decl.Function, Name: "draw", Qualifier: []string{"Widget"}}, nil, KindMethod},
		{"out of line in namespace", decl.Decl{Shape: decl.Function, Name: "draw", Qualifier: []string{"Widget"}}, inNamespace, KindMethod},
		{"namespace qualifier", decl.Decl{Shape: decl.Function, Name: "init", Qualifier: []string{"gfx"}}, nil, KindFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := trackerWith(t, tt.push)
			ctx.Classes = classes
			if got := Classify(nil, tt.d, ctx, "").Kind; got != tt.want {
				t.Errorf("kind = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyPosition(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("p.c", []byte("int a;\nstatic int\n  counter = 0;\n")))
	d := decl.Decl{
		Shape:     decl.Variable,
		Name:      "counter",
		Modifiers: decl.ModStatic,
		NameSpan:  file.Span(20, 27),
		Span:      file.Span(7, 31),
	}
	rec := Classify(file, d, trackerWith(t, nil), "doc")
	if rec.Pos != (source.LineCol{Line: 3, Col: 3}) {
		t.Errorf("pos = %+v", rec.Pos)
	}
	if rec.EndLine != 3 {
		t.Errorf("end line = %d, want 3", rec.EndLine)
	}
	if len(rec.Modifiers) != 1 || rec.Modifiers[0] != "static" {
		t.Errorf("modifiers = %v", rec.Modifiers)
	}
	if !rec.HasDoc() {
		t.Error("doc lost")
	}
}

func TestParseNames(t *testing.T) {
	for v := Public; v <= Inaccessible; v++ {
		got, ok := ParseVisibility(v.String())
		if !ok || got != v {
			t.Errorf("ParseVisibility(%q) = %v, %v", v, got, ok)
		}
	}
	for l := LinkageExternal; l <= LinkageNone; l++ {
		got, ok := ParseLinkage(l.String())
		if !ok || got != l {
			t.Errorf("ParseLinkage(%q) = %v, %v", l, got, ok)
		}
	}
	if k, ok := ParseKind("method"); !ok || k != KindMethod {
		t.Errorf("ParseKind(method) = %v, %v", k, ok)
	}
	if _, ok := ParseKind("struct"); ok {
		t.Error("struct is not a record kind")
	}
}
