/*
Package domain defines the core types of the experience-sampling engine.

The central pieces are:

  - Question: a closed set of eight node variants making up a survey stream.
  - Redirect: a jump target that distinguishes "not configured" from an
    explicit null (which suppresses the normal next edge).
  - Answer: one recorded response, keyed by a question's resolved id.
  - SessionState: the fully serializable snapshot of one ping's traversal,
    including the pending jump stack. Persisting and reloading a
    SessionState must reproduce the exact same next transition.
*/
package domain
