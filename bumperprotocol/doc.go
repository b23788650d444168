// Package bumperprotocol provides a Go client for the text-based protocol of
// the SpaceBumper game server.
//
// # Protocol Overview
//
// The protocol is line-oriented ASCII over a persistent TCP stream. The
// client logs in once and then receives an unbounded sequence of blocks,
// each framed by START <TYPE> and END <TYPE> lines, where TYPE is STATUS,
// PLAYER or MAP. The client steers its ship with one-way acceleration lines.
//
// # Basic Usage
//
// Connect, log in and consume events:
//
//	conn, err := bumperprotocol.Connect("localhost", bumperprotocol.DefaultPort)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, err := bumperprotocol.NewPlayerName("Der rote Baron")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := conn.Login("pass", name, bumperprotocol.ColorRed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.Accelerate(1, 0); err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    event, err := session.WaitNext()
//	    if err != nil {
//	        log.Print(err) // one bad block; keep going or give up
//	        continue
//	    }
//	    switch event.Type {
//	    case bumperprotocol.EventStatus:
//	        fmt.Println("iteration", event.Status.Iteration)
//	    case bumperprotocol.EventPlayer:
//	        fmt.Println(len(event.Players.Players), "players")
//	    case bumperprotocol.EventMap:
//	        fmt.Println(len(event.Map.Rows), "rows")
//	    case bumperprotocol.EventGameEnded:
//	        return
//	    }
//	}
//
// # Decoding Without a Session
//
// BlockReader and ParseBlock work on any io.Reader, for example a recorded
// stream on disk:
//
//	blocks := bumperprotocol.NewBlockReader(file)
//	for {
//	    block, err := blocks.ReadBlock()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	    event, err := bumperprotocol.ParseBlock(block)
//	}
//
// # Errors
//
// Every failure is a *ProtocolError whose Kind tells transport trouble
// (Connection, Login, AccelerationWrite, ServerDidNotSendLine) apart from
// protocol trouble (UsernameLength, LoginResult, InvalidServerMessage).
// Use IsKind or errors.As to inspect it. The package never logs and never
// retries.
//
// # Thread Safety
//
// A Session is not safe for concurrent use beyond one reader calling
// WaitNext and one writer calling Accelerate.
package bumperprotocol
