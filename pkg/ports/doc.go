/*
Package ports defines the driven ports (interfaces) of the guidebot engine.

These interfaces decouple the conversation core from its host and from the
storage of the dialogue graph.

# Key Interfaces

  - GraphLoader: loads Node definitions (embedded catalog, Loam directory, Memory).
  - Visibility: the host's open/closed signal and close callback.
  - Navigator: follows internal routes and external URLs emitted by nodes.
  - Pacer: the cancellable "typing" delay before a bot reply.
  - Assistant: the stateless lookup surface used by the HTTP and MCP adapters.
*/
package ports
