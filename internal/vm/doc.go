// Package vm implements the two-level virtual memory of the quill memory
// model: a single process-wide global VM plus one local VM per execution
// context, with nested save/restore checkpointing over both.
//
// ARCHITECTURE:
//
// Lazy copy-on-write checkpointing:
// Save pushes a checkpoint carrying nothing but a sequence number and an
// empty snapshot table - O(1) regardless of heap size. The cost is paid on
// first touch: every composite mutator notifies the barrier, which freezes
// the pre-mutation backing store into the innermost checkpoint's table the
// first time an object is touched after that checkpoint, and never again
// for the same checkpoint. Restore walks only the touched objects.
//
// One clock, one order:
// A single atomic clock stamps both object identities and checkpoint
// sequence numbers, so "was this object last frozen before the innermost
// checkpoint" and "did this object exist when the checkpoint was taken"
// are both plain integer comparisons. A store's last-frozen-for value is
// initialized to its own identity, which is why objects created after a
// save are never frozen for it.
//
// Cooperative scheduling:
// At most one context mutates at a time and context switches happen only
// at operator boundaries, never mid-mutation. The coarse Memory lock makes
// the global VM safe under a multi-threaded host; local VMs are
// context-exclusive and need no cross-context locking. No operation here
// blocks or runs asynchronously.
//
// The token scanner, operator engine, renderer, and resource catalog are
// external collaborators: they create and mutate composites only through
// the Context and object APIs.
package vm
