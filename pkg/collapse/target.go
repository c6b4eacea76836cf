package collapse

import (
	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// KeyFor resolves the collapse key of a row on sheet. An empty path names
// the object row itself; otherwise path must name a compound prop of the
// object's schema, since only those rows can collapse.
func KeyFor(sheet *scene.Sheet, object string, path scene.Path) (scene.ItemKey, error) {
	o, ok := sheet.Object(object)
	if !ok {
		return "", errs.New(errs.ErrCodeNotFound, "object %q is not on sheet %q", object, sheet.Address().SheetID)
	}
	if len(path) == 0 {
		return scene.ObjectItemKey(o.Address()), nil
	}

	t, ok := o.Config().At(path)
	if !ok {
		return "", errs.New(errs.ErrCodeNotFound, "object %q has no prop %q", object, path)
	}
	if !t.IsCompound() {
		return "", errs.New(errs.ErrCodeInvalidPath, "prop %q of object %q is a %s prop and cannot collapse", path, object, t.Kind)
	}
	return scene.PropItemKey(o.Address(), path), nil
}
