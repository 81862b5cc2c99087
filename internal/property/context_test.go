package property

import (
	"errors"
	"testing"
)

var (
	idUseRemote  = NewIdentity("Debug", "General", "Use remote machine")
	idRemoteHost = NewIdentity("Debug", "General", "Remote machine host name")
	idOptimize   = NewIdentity("Build", "General", "Optimize code")
)

func debugProperties(t *testing.T) []*Property {
	t.Helper()
	return []*Property{
		mustProperty(t, testMeta(idUseRemote.Page, idUseRemote.Category, idUseRemote.Name), NewValue(Bool(false))),
		mustProperty(t, testMeta(idRemoteHost.Page, idRemoteHost.Category, idRemoteHost.Name), NewValue(Text(""))),
	}
}

func configurationCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(Dimension{Name: "Configuration", Values: []string{"Debug", "Release"}})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return c
}

func TestNewContext_WiresConditions(t *testing.T) {
	props := debugProperties(t)
	conds := []Condition{{Source: idUseRemote, Value: Bool(true), Target: idRemoteHost}}

	ctx, err := NewContext(nil, conds, props, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	host, _ := ctx.Property(idRemoteHost)
	if host.IsConditionalVisible() {
		t.Error("host name should start hidden")
	}

	useRemote, _ := ctx.Property(idUseRemote)
	useRemote.Values()[0].SetEvaluatedValue(Bool(true))
	if !host.IsConditionalVisible() {
		t.Error("host name should be visible after enabling remote machine")
	}

	for _, p := range ctx.Properties() {
		if p.Context() != ctx {
			t.Errorf("%s not initialized with context", p)
		}
	}
	if ctx.HasConfigurableDimensions() || len(ctx.ConfigurationCommands()) != 0 {
		t.Error("context without dimensions should have no commands")
	}
}

func TestNewContext_UnresolvedConditionStrict(t *testing.T) {
	props := debugProperties(t)
	missing := NewIdentity("Debug", "General", "Missing")
	conds := []Condition{{Source: idUseRemote, Value: Bool(true), Target: missing}}

	_, err := NewContext(nil, conds, props, WithLogger(quietLogger()))
	if !errors.Is(err, ErrUnresolvedCondition) {
		t.Fatalf("error = %v, want ErrUnresolvedCondition", err)
	}

	var condErr *ConditionError
	if !errors.As(err, &condErr) {
		t.Fatalf("error is %T, want *ConditionError", err)
	}
	if condErr.Missing != missing {
		t.Errorf("Missing = %v, want %v", condErr.Missing, missing)
	}

	for _, p := range props {
		if p.IsInitialized() || len(p.Dependents()) != 0 {
			t.Error("failed construction must leave properties untouched")
		}
	}
}

func TestNewContext_UnresolvedConditionLoose(t *testing.T) {
	props := debugProperties(t)
	conds := []Condition{
		{Source: NewIdentity("Application", "General", "Output type"), Value: Enum("Exe"), Target: idRemoteHost},
		{Source: idUseRemote, Value: Bool(true), Target: idRemoteHost},
	}

	ctx, err := NewContext(nil, conds, props, WithLooseConditions(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	if !ctx.IsLoose() {
		t.Error("IsLoose() = false, want true")
	}
	if skipped := ctx.SkippedConditions(); len(skipped) != 1 {
		t.Errorf("SkippedConditions() len = %d, want 1", len(skipped))
	}

	host, _ := ctx.Property(idRemoteHost)
	if host.IsConditionalVisible() {
		t.Error("resolved condition should still apply in loose mode")
	}
}

func TestNewContext_DuplicateIdentity(t *testing.T) {
	props := []*Property{
		mustProperty(t, testMeta("Build", "General", "Output path"), NewValue(Text(""))),
		mustProperty(t, testMeta("Build", "General", "Output path"), NewValue(Text(""))),
	}

	_, err := NewContext(nil, nil, props)
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestNewContext_AlreadyInitialized(t *testing.T) {
	props := debugProperties(t)
	if _, err := NewContext(nil, nil, props, WithLogger(quietLogger())); err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	_, err := NewContext(nil, nil, props, WithLogger(quietLogger()))
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("reusing properties: error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestNewContext_UnknownDimension(t *testing.T) {
	catalog := configurationCatalog(t)

	tests := []struct {
		name string
		dims Dimensions
	}{
		{"unknown name", Dimensions{"Platform": "x64"}},
		{"unknown value", Dimensions{"Configuration": "Profile"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustProperty(t, testMeta("Build", "General", "Optimize code"), NewValue(Bool(true), WithDimensions(tt.dims)))
			_, err := NewContext(catalog, nil, []*Property{p})
			if !errors.Is(err, ErrUnknownDimension) {
				t.Errorf("error = %v, want ErrUnknownDimension", err)
			}
		})
	}
}

func TestNewContext_Cycle(t *testing.T) {
	a := NewIdentity("P", "C", "A")
	b := NewIdentity("P", "C", "B")
	c := NewIdentity("P", "C", "C")
	props := []*Property{
		mustProperty(t, testMeta("P", "C", "A"), NewValue(Bool(true))),
		mustProperty(t, testMeta("P", "C", "B"), NewValue(Bool(true))),
		mustProperty(t, testMeta("P", "C", "C"), NewValue(Bool(true))),
	}
	conds := []Condition{
		{Source: a, Value: Bool(true), Target: b},
		{Source: b, Value: Bool(true), Target: c},
		{Source: c, Value: Bool(true), Target: a},
	}

	_, err := NewContext(nil, conds, props)
	if !errors.Is(err, ErrConditionCycle) {
		t.Fatalf("error = %v, want ErrConditionCycle", err)
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("error is %T, want *CycleError", err)
	}
	if len(cycleErr.Path) != 4 || cycleErr.Path[0] != cycleErr.Path[3] {
		t.Errorf("Path = %v, want a closed cycle of three", cycleErr.Path)
	}
}

func TestNewContext_SelfCycle(t *testing.T) {
	a := NewIdentity("P", "C", "A")
	props := []*Property{mustProperty(t, testMeta("P", "C", "A"), NewValue(Bool(true)))}

	_, err := NewContext(nil, []Condition{{Source: a, Value: Bool(true), Target: a}}, props)
	if !errors.Is(err, ErrConditionCycle) {
		t.Errorf("error = %v, want ErrConditionCycle", err)
	}
}

func TestNewContext_DiamondIsNotCycle(t *testing.T) {
	a := NewIdentity("P", "C", "A")
	b := NewIdentity("P", "C", "B")
	c := NewIdentity("P", "C", "C")
	d := NewIdentity("P", "C", "D")
	var props []*Property
	for _, id := range []Identity{a, b, c, d} {
		props = append(props, mustProperty(t, testMeta(id.Page, id.Category, id.Name), NewValue(Bool(true))))
	}
	conds := []Condition{
		{Source: a, Value: Bool(true), Target: b},
		{Source: a, Value: Bool(true), Target: c},
		{Source: b, Value: Bool(true), Target: d},
		{Source: c, Value: Bool(true), Target: d},
	}

	if _, err := NewContext(nil, conds, props, WithLogger(quietLogger())); err != nil {
		t.Errorf("diamond rejected: %v", err)
	}
}

func TestContext_Lookup(t *testing.T) {
	props := append(debugProperties(t),
		mustProperty(t, testMeta("Build", "General", "Platform"), NewValue(Text(""))),
		mustProperty(t, testMeta("Package", "General", "Platform"), NewValue(Text(""))))
	ctx, err := NewContext(nil, nil, props, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	p, err := ctx.Lookup("use remote machine")
	if err != nil || p.Identity() != idUseRemote {
		t.Errorf("Lookup(name) = %v, %v", p, err)
	}

	p, err = ctx.Lookup("Build | General | Platform")
	if err != nil || p.Metadata().Page != "Build" {
		t.Errorf("Lookup(identity) = %v, %v", p, err)
	}

	if _, err := ctx.Lookup("Platform"); !errors.Is(err, ErrAmbiguousName) {
		t.Errorf("ambiguous lookup: error = %v, want ErrAmbiguousName", err)
	}
	if _, err := ctx.Lookup("Nope"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("missing lookup: error = %v, want ErrPropertyNotFound", err)
	}
	if _, err := ctx.Lookup("Build | General | Nope"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("missing identity: error = %v, want ErrPropertyNotFound", err)
	}
}

func TestContext_UpdateSearchState(t *testing.T) {
	props := debugProperties(t)
	conds := []Condition{{Source: idUseRemote, Value: Bool(true), Target: idRemoteHost}}
	ctx, err := NewContext(nil, conds, props, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	if n := ctx.UpdateSearchState("remote"); n != 1 {
		t.Errorf("visible = %d, want 1 (host name is conditionally hidden)", n)
	}
	if ctx.SearchText() != "remote" {
		t.Errorf("SearchText() = %q", ctx.SearchText())
	}
	if n := ctx.UpdateSearchState("host"); n != 0 {
		t.Errorf("visible = %d, want 0", n)
	}
	if n := ctx.UpdateSearchState(""); n != 1 {
		t.Errorf("visible = %d, want 1", n)
	}
	if len(ctx.VisibleProperties()) != 1 {
		t.Errorf("VisibleProperties() len = %d, want 1", len(ctx.VisibleProperties()))
	}
}

func TestContext_Sections(t *testing.T) {
	mk := func(page, category, name string, priority int) *Property {
		return mustProperty(t, &Metadata{Page: page, Category: category, Name: name, Priority: priority}, NewValue(Text("")))
	}
	props := []*Property{
		mk("Debug", "General", "Launch", 30),
		mk("Build", "Output", "Output path", 20),
		mk("Build", "General", "Optimize code", 10),
		mk("Build", "General", "Define DEBUG", 10),
	}
	ctx, err := NewContext(nil, nil, props, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	sections := ctx.Sections(false)
	if len(sections) != 2 || sections[0].Page != "Build" || sections[1].Page != "Debug" {
		t.Fatalf("pages = %+v", sections)
	}
	build := sections[0]
	if len(build.Categories) != 2 || build.Categories[0].Category != "General" {
		t.Fatalf("Build categories = %+v", build.Categories)
	}
	general := build.Categories[0].Properties
	if general[0].Name() != "Define DEBUG" || general[1].Name() != "Optimize code" {
		t.Errorf("General order = %v, %v; want priority then name", general[0], general[1])
	}

	ctx.UpdateSearchState("launch")
	if visible := ctx.Sections(true); len(visible) != 1 || visible[0].Page != "Debug" {
		t.Errorf("visible sections = %+v", visible)
	}
}

func TestContext_Clone(t *testing.T) {
	catalog := configurationCatalog(t)
	props := append(debugProperties(t), mustProperty(t, &Metadata{
		Page: idOptimize.Page, Category: idOptimize.Category, Name: idOptimize.Name,
		SupportsPerConfigurationValues: true,
	}, NewValue(Bool(false))))
	conds := []Condition{{Source: idUseRemote, Value: Bool(true), Target: idRemoteHost}}

	ctx1, err := NewContext(catalog, conds, props, WithLooseConditions(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	ctx2 := ctx1.Clone()

	if ctx2.Catalog() != ctx1.Catalog() {
		t.Error("clone should share the catalog")
	}
	if !ctx2.IsLoose() {
		t.Error("clone should keep loose mode")
	}
	if len(ctx2.ConfigurationCommands()) != len(ctx1.ConfigurationCommands()) {
		t.Error("clone should derive the same commands")
	}

	use1, _ := ctx1.Property(idUseRemote)
	use2, _ := ctx2.Property(idUseRemote)
	host1, _ := ctx1.Property(idRemoteHost)
	host2, _ := ctx2.Property(idRemoteHost)
	if use1 == use2 {
		t.Fatal("clone shares property instances")
	}
	if use2.Context() != ctx2 {
		t.Error("cloned property bound to wrong context")
	}

	use2.Values()[0].SetEvaluatedValue(Bool(true))
	if b, _ := use1.Values()[0].EvaluatedValue().AsBool(); b {
		t.Error("mutating the clone changed the original value")
	}
	if !host2.IsConditionalVisible() {
		t.Error("clone should be wired independently")
	}
	if host1.IsConditionalVisible() {
		t.Error("original target should not react to clone edits")
	}

	opt2, _ := ctx2.Property(idOptimize)
	if err := ctx2.ConfigurationCommands()[0].Execute(opt2); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	opt1, _ := ctx1.Property(idOptimize)
	if len(opt1.Values()) != 1 || len(opt2.Values()) != 2 {
		t.Errorf("values: original %d, clone %d; want 1 and 2", len(opt1.Values()), len(opt2.Values()))
	}
}

func TestContext_SetValuesChecksCatalog(t *testing.T) {
	catalog := configurationCatalog(t)
	p := mustProperty(t, testMeta("Build", "General", "Optimize code"), NewValue(Bool(false)))
	if _, err := NewContext(catalog, nil, []*Property{p}, WithLogger(quietLogger())); err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	err := p.SetValues([]*PropertyValue{NewValue(Bool(true), WithDimensions(Dimensions{"Platform": "x64"}))})
	if !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("error = %v, want ErrUnknownDimension", err)
	}
}
