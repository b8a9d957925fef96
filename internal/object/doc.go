// Package object provides the composite value types of the quill memory
// model: arrays, dictionaries, strings, and graphics-state capsules.
//
// This package contains the value union and the backing stores only. All
// other internal packages import object; object imports nothing internal
// except arena. This keeps the value layer foundational with no circular
// dependencies.
//
// Key design constraints:
//   - Every composite is identified by an Identity issued at construction,
//     never by its storage address. Addresses are reused across restores;
//     identities never are.
//   - A backing store has exactly one owning identity but may be aliased by
//     any number of sub-views. Mutation through any view is immediately
//     visible through every other.
//   - Mutators notify the store's Barrier before touching the backing
//     store, so the virtual-memory layer can freeze a pre-mutation copy.
//   - A global store may never hold a reference to a local composite. Every
//     composite write enforces this and fails with INVALIDACCESS.
//   - RANGECHECK and INVALIDACCESS are ordinary return values, never
//     panics. A failed operation leaves the object untouched.
package object
