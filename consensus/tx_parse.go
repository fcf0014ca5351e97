package consensus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type outputWire struct {
	ScriptPubKey        *string `json:"scriptpubkey"`
	ScriptPubKeyAsm     *string `json:"scriptpubkey_asm"`
	ScriptPubKeyType    *string `json:"scriptpubkey_type"`
	ScriptPubKeyAddress *string `json:"scriptpubkey_address"`
	Value               *uint64 `json:"value"`
}

type inputWire struct {
	Txid         *string     `json:"txid"`
	Vout         *uint32     `json:"vout"`
	Prevout      *outputWire `json:"prevout"`
	ScriptSig    *string     `json:"scriptsig"`
	ScriptSigAsm *string     `json:"scriptsig_asm"`
	Witness      *[]string   `json:"witness"`
	IsCoinbase   *bool       `json:"is_coinbase"`
	Sequence     *uint64     `json:"sequence"`
}

type txWire struct {
	Version  *int32        `json:"version"`
	Locktime *uint32       `json:"locktime"`
	Vin      *[]inputWire  `json:"vin"`
	Vout     *[]outputWire `json:"vout"`
}

// ParseTx decodes one transaction from its JSON text. Every field is
// required, including "witness" (possibly empty) and "scriptpubkey_address";
// a null counts as missing. Script fields must be
// hex and referenced txids must be 32 bytes (empty only on coinbase-flagged
// inputs), so a parsed transaction always has a computable txid.
func ParseTx(raw []byte) (*Tx, error) {
	var w txWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, txerr(TX_ERR_PARSE, err.Error())
	}
	if w.Version == nil {
		return nil, missingField("version")
	}
	if w.Locktime == nil {
		return nil, missingField("locktime")
	}
	if w.Vin == nil {
		return nil, missingField("vin")
	}
	if w.Vout == nil {
		return nil, missingField("vout")
	}

	tx := &Tx{
		Version:  *w.Version,
		Locktime: *w.Locktime,
		Vin:      make([]TxInput, 0, len(*w.Vin)),
		Vout:     make([]TxOutput, 0, len(*w.Vout)),
	}
	for i, iw := range *w.Vin {
		in, err := iw.toInput(fmt.Sprintf("vin[%d]", i))
		if err != nil {
			return nil, err
		}
		tx.Vin = append(tx.Vin, in)
	}
	for i, ow := range *w.Vout {
		out, err := ow.toOutput(fmt.Sprintf("vout[%d]", i))
		if err != nil {
			return nil, err
		}
		tx.Vout = append(tx.Vout, out)
	}
	return tx, nil
}

func (w inputWire) toInput(path string) (TxInput, error) {
	var in TxInput
	switch {
	case w.Txid == nil:
		return in, missingField(path + ".txid")
	case w.Vout == nil:
		return in, missingField(path + ".vout")
	case w.Prevout == nil:
		return in, missingField(path + ".prevout")
	case w.ScriptSig == nil:
		return in, missingField(path + ".scriptsig")
	case w.ScriptSigAsm == nil:
		return in, missingField(path + ".scriptsig_asm")
	case w.Witness == nil:
		return in, missingField(path + ".witness")
	case w.IsCoinbase == nil:
		return in, missingField(path + ".is_coinbase")
	case w.Sequence == nil:
		return in, missingField(path + ".sequence")
	}
	prevout, err := w.Prevout.toOutput(path + ".prevout")
	if err != nil {
		return in, err
	}
	if *w.Txid != "" || !*w.IsCoinbase {
		if _, err := decodeHex32(*w.Txid, path+".txid"); err != nil {
			return in, txerr(TX_ERR_PARSE, err.Error())
		}
	}
	if err := checkHex(*w.ScriptSig, path+".scriptsig"); err != nil {
		return in, err
	}
	return TxInput{
		Txid:         *w.Txid,
		Vout:         *w.Vout,
		Prevout:      prevout,
		ScriptSig:    *w.ScriptSig,
		ScriptSigAsm: *w.ScriptSigAsm,
		Witness:      *w.Witness,
		IsCoinbase:   *w.IsCoinbase,
		Sequence:     *w.Sequence,
	}, nil
}

func (w outputWire) toOutput(path string) (TxOutput, error) {
	var out TxOutput
	switch {
	case w.ScriptPubKey == nil:
		return out, missingField(path + ".scriptpubkey")
	case w.ScriptPubKeyAsm == nil:
		return out, missingField(path + ".scriptpubkey_asm")
	case w.ScriptPubKeyType == nil:
		return out, missingField(path + ".scriptpubkey_type")
	case w.ScriptPubKeyAddress == nil:
		return out, missingField(path + ".scriptpubkey_address")
	case w.Value == nil:
		return out, missingField(path + ".value")
	}
	if err := checkHex(*w.ScriptPubKey, path+".scriptpubkey"); err != nil {
		return out, err
	}
	return TxOutput{
		ScriptPubKey:        *w.ScriptPubKey,
		ScriptPubKeyAsm:     *w.ScriptPubKeyAsm,
		ScriptPubKeyType:    *w.ScriptPubKeyType,
		ScriptPubKeyAddress: *w.ScriptPubKeyAddress,
		Value:               *w.Value,
	}, nil
}

func missingField(name string) error {
	return txerrf(TX_ERR_PARSE, "missing field %q", name)
}

func checkHex(s string, name string) error {
	if _, err := hex.DecodeString(s); err != nil {
		return txerrf(TX_ERR_PARSE, "%s: %v", name, err)
	}
	return nil
}
