package iterator

// This file documents the recommended adapter pattern for cursor implementations.
//
// Guidelines for Iterator Adapters:
//
// 1. Naming Convention:
//    - Adapters over iterator facades are named after the range they cover,
//      e.g. RangeIterator for a [begin, end) pair
//    - Adapters over other cursors live in a sub-package named after what
//      they do (bounded, filtered, composite) and export a type named Iterator
//
// 2. Implementation Pattern:
//    - Store the source cursor or facade pair as fields
//    - Implement the Iterator interface by delegating to the source
//    - Value must return the zero value when the cursor is not Valid
//
// 3. Positioning:
//    - A new adapter is not required to be positioned; callers use
//      SeekToFirst (All does this for them)
//    - Next returns the same answer Valid would give afterwards
//
// Example:
//
// // EvenAdapter yields only even values of its source
// type EvenAdapter struct {
//     source Iterator[int]
// }
//
// func (a *EvenAdapter) SeekToFirst() {
//     a.source.SeekToFirst()
//     for a.source.Valid() && a.source.Value()%2 != 0 {
//         a.source.Next()
//     }
// }
//
// func (a *EvenAdapter) Next() bool {
//     for a.source.Next() {
//         if a.source.Value()%2 == 0 {
//             return true
//         }
//     }
//     return false
// }
//
// func (a *EvenAdapter) Value() int {
//     return a.source.Value()
// }
//
// func (a *EvenAdapter) Valid() bool {
//     return a.source.Valid() && a.source.Value()%2 == 0
// }
