package infer

import "github.com/fixlang/fixc/internal/types"

// Unify computes the most general substitution making a and b identical,
// or fails with the first structural mismatch or occurs-check violation
// (spec.md §8 property 2). AssocTy applications are neither decomposed nor
// rewritten: nothing in this package reduces them against equality
// schemes, so an AssocTy unifies only with a type variable or with a
// syntactically identical AssocTy.
func Unify(a, b types.Type) (types.Substitution, error) {
	if av, ok := a.(*types.TyVar); ok {
		return bindVar(av, b)
	}
	if bv, ok := b.(*types.TyVar); ok {
		return bindVar(bv, a)
	}
	switch at := a.(type) {
	case *types.TyCon:
		bt, ok := b.(*types.TyCon)
		if !ok || !at.Name.Equals(bt.Name) {
			return nil, &UnifyError{A: a, B: b}
		}
		return types.Empty(), nil
	case *types.TyApp:
		bt, ok := b.(*types.TyApp)
		if !ok {
			return nil, &UnifyError{A: a, B: b}
		}
		s1, err := Unify(at.Fun, bt.Fun)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(types.Apply(s1, at.Arg), types.Apply(s1, bt.Arg))
		if err != nil {
			return nil, err
		}
		return types.Compose(s1, s2), nil
	case *types.FunTy:
		bt, ok := b.(*types.FunTy)
		if !ok {
			return nil, &UnifyError{A: a, B: b}
		}
		s1, err := Unify(at.From, bt.From)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(types.Apply(s1, at.To), types.Apply(s1, bt.To))
		if err != nil {
			return nil, err
		}
		return types.Compose(s1, s2), nil
	case *types.AssocTy:
		if at.Equals(b) {
			return types.Empty(), nil
		}
		return nil, &UnifyError{A: a, B: b}
	default:
		return nil, &UnifyError{A: a, B: b}
	}
}

func bindVar(v *types.TyVar, t types.Type) (types.Substitution, error) {
	if tv, ok := t.(*types.TyVar); ok {
		if tv.Name == v.Name {
			return types.Empty(), nil
		}
		if !v.Kind.Equals(tv.Kind) {
			return nil, &KindMismatchError{Var: v.Name, Want: v.Kind, Got: tv.Kind}
		}
	}
	if occurs(v.Name, t) {
		return nil, &OccursCheckError{Var: v.Name, In: t}
	}
	return types.Substitution{v.Name: t}, nil
}

func occurs(name string, t types.Type) bool {
	_, ok := t.FreeVars()[name]
	return ok
}

// UnifyAll folds Unify across paired lists, threading the substitution.
func UnifyAll(as, bs []types.Type) (types.Substitution, error) {
	sub := types.Empty()
	for i := range as {
		s, err := Unify(types.Apply(sub, as[i]), types.Apply(sub, bs[i]))
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, s)
	}
	return sub, nil
}
