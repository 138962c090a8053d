package eth

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

func newHTTPServer(t *testing.T, srv *gethrpc.Server) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(srv)
	t.Cleanup(func() {
		s.Close()
		srv.Stop()
	})
	return s
}

type fakeChain struct{}

func (fakeChain) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(1))
}

func TestDial(t *testing.T) {
	t.Parallel()

	srv := gethrpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", fakeChain{}))
	httpSrv := newHTTPServer(t, srv)

	client, chainID, err := Dial(context.Background(), httpSrv.URL)
	require.NoError(t, err)
	defer client.Close()
	require.Equal(t, int64(1), chainID.Int64())
}

func TestDial_Unreachable(t *testing.T) {
	t.Parallel()

	_, _, err := Dial(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
}
