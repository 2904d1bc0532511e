// Package pipeline runs the CDMA modem as a streaming producer/consumer
// pipeline.
//
// ARCHITECTURE:
//
// Two long-lived goroutines share one FIFO queue:
//
//	Source ──> Producer ──> frameQueue ──> Consumer ──> Sink
//	           normalize     mutex +        encode,
//	           + enqueue     signal chan    decode,
//	                                        publish
//
// Producer reads one token at a time, normalizes it to a frame of N bits and
// pushes it onto the queue. The sentinel token ("exit" by default) starts
// shutdown instead of being enqueued.
//
// Consumer waits for a frame or shutdown, pops exactly one frame, releases
// the queue lock and only then runs the modem. Each decoded bit is appended
// to that user's history and the updated histories are published.
//
// Lock hold time is O(1) on both sides: the modem never runs inside the
// critical section.
//
// ORDERING:
// There is exactly one consumer, so frames are decoded in enqueue order.
// Sequence numbers come from a monotonic logical Clock.
//
// SHUTDOWN:
//
//	Running ──(sentinel | Stop | EOF)──> ShuttingDown ──(queue drained, roles joined)──> Stopped
//
// Frames queued before the sentinel are still decoded. Stopped is entered
// only after the consumer and every Produce call have returned. Cancelling
// the context aborts without draining.
package pipeline
